// Package uploader posts an UpstreamCompletionOp to the sync server and
// reports what landed. Record encryption, batching and retry policy are
// out of scope; this package implements only the HTTP boundary.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dastanaron/bookmarks-sync/internal/result"
	"github.com/dastanaron/bookmarks-sync/internal/syncids"
)

// Uploader is satisfied by anything that can post an UpstreamCompletionOp
// and report a POSTResult; the applier depends on this shape, not on
// HTTPUploader specifically.
type Uploader interface {
	Post(ctx context.Context, op result.UpstreamCompletionOp) (result.POSTResult, error)
}

// HTTPUploader posts the op's records as a single JSON body to a
// configured endpoint and decodes a POSTResult from the response.
type HTTPUploader struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPUploader builds an HTTPUploader against baseURL, defaulting to
// http.DefaultClient when client is nil.
func NewHTTPUploader(baseURL string, client *http.Client) *HTTPUploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPUploader{BaseURL: baseURL, Client: client}
}

type wirePayload struct {
	Records []json.RawMessage `json:"records"`
}

type wireResult struct {
	Modified int64             `json:"modified"`
	Success  []string          `json:"success"`
	Failed   map[string]string `json:"failed"`
}

// Post POSTs op.Records as JSON to BaseURL and decodes the server's
// POSTResult. Retries, batching and encryption are deliberately not
// implemented here. When Post returns an error the applier ends the pass
// with an IOFailure error and commits nothing; it does not retry.
func (u *HTTPUploader) Post(ctx context.Context, op result.UpstreamCompletionOp) (result.POSTResult, error) {
	records := make([]json.RawMessage, 0, len(op.Records))
	for _, r := range op.Records {
		encoded, err := json.Marshal(r)
		if err != nil {
			return result.POSTResult{}, fmt.Errorf("encoding record %s: %w", r.GUID, err)
		}
		records = append(records, encoded)
	}

	body, err := json.Marshal(wirePayload{Records: records})
	if err != nil {
		return result.POSTResult{}, fmt.Errorf("encoding upstream payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL, bytes.NewReader(body))
	if err != nil {
		return result.POSTResult{}, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.Client.Do(req)
	if err != nil {
		return result.POSTResult{}, fmt.Errorf("posting upstream op: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return result.POSTResult{}, fmt.Errorf("upstream post failed: status %d", resp.StatusCode)
	}

	var wire wireResult
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return result.POSTResult{}, fmt.Errorf("decoding upstream response: %w", err)
	}

	return decodePOSTResult(wire), nil
}

func decodePOSTResult(wire wireResult) result.POSTResult {
	out := result.POSTResult{
		Modified: wire.Modified,
		Failed:   make(map[syncids.GUID]string, len(wire.Failed)),
	}
	for _, guid := range wire.Success {
		out.Success = append(out.Success, syncids.NormalizeRootGUID(syncids.GUID(guid)))
	}
	for guid, reason := range wire.Failed {
		out.Failed[syncids.NormalizeRootGUID(syncids.GUID(guid))] = reason
	}
	return out
}
