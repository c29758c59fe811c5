// Package parser reads and renders the Netscape bookmark HTML format
// used by every major browser's export/import feature. Grounded on the
// teacher's internal/parser/parser.go: the same golang.org/x/net/html
// walk over <H3>/<A> elements and <DL> nesting, generalized to emit
// syncids.Records instead of writing straight into a flat bookmarks
// table.
package parser

import (
	"fmt"
	"html"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/dastanaron/bookmarks-sync/internal/syncids"
	"github.com/dastanaron/bookmarks-sync/internal/tree"
)

// ParsedTree is a freshly-parsed Netscape bookmark file rendered as
// syncids.Records plus the structure rows linking them, rooted at a
// single top-level folder GUID.
type ParsedTree struct {
	// RootGUID is the GUID of the synthetic top-level folder that holds
	// everything the file's <DL> contained at depth 0.
	RootGUID  syncids.GUID
	Records   []syncids.Record
	Structure []tree.StructureRow
}

type folderFrame struct {
	guid    syncids.GUID
	nextIdx int
}

// Parse parses r as a Netscape bookmark file and returns every folder
// and bookmark it found, each with a freshly minted GUID, under a
// single synthetic root folder named title.
func Parse(r io.Reader, title string) (*ParsedTree, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bookmark HTML: %w", err)
	}

	out := &ParsedTree{RootGUID: syncids.NewGUID()}
	rootTitle := title
	out.Records = append(out.Records, syncids.Record{
		GUID: out.RootGUID, Type: syncids.TypeFolder, FolderName: &rootTitle,
	})

	stack := []*folderFrame{{guid: out.RootGUID}}

	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "h3" && n.FirstChild != nil {
			name := strings.TrimSpace(n.FirstChild.Data)
			guid := syncids.NewGUID()
			parent := stack[len(stack)-1]

			out.Records = append(out.Records, syncids.Record{GUID: guid, Type: syncids.TypeFolder, FolderName: &name})
			out.Structure = append(out.Structure, tree.StructureRow{Parent: parent.guid, Child: guid, Index: parent.nextIdx})
			parent.nextIdx++

			stack = append(stack, &folderFrame{guid: guid})
		}

		if n.Type == xhtml.ElementNode && n.Data == "a" {
			var uri string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					uri = attr.Val
				}
			}
			if uri != "" {
				var titleText string
				if n.FirstChild != nil {
					titleText = strings.TrimSpace(n.FirstChild.Data)
				}
				guid := syncids.NewGUID()
				parent := stack[len(stack)-1]

				out.Records = append(out.Records, syncids.Record{GUID: guid, Type: syncids.TypeBookmark, Title: &titleText, BookmarkURI: &uri})
				out.Structure = append(out.Structure, tree.StructureRow{Parent: parent.guid, Child: guid, Index: parent.nextIdx})
				parent.nextIdx++
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == xhtml.ElementNode && n.Data == "dl" && len(stack) > 1 {
			stack = stack[:len(stack)-1]
		}
	}

	walk(doc)
	return out, nil
}

// Render writes the tree under root as a Netscape bookmark file, one <DT> per record,
// folders opening a nested <DL>. children must map every folder GUID
// (including root) to its child GUIDs in export order; items maps every
// GUID to its record.
func Render(w io.Writer, root syncids.GUID, children map[syncids.GUID][]syncids.GUID, items map[syncids.GUID]syncids.Record) error {
	if _, err := io.WriteString(w, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n"+
		"<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n"+
		"<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n"); err != nil {
		return err
	}
	if err := renderChildren(w, root, children, items); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</DL><p>\n")
	return err
}

func renderChildren(w io.Writer, parent syncids.GUID, children map[syncids.GUID][]syncids.GUID, items map[syncids.GUID]syncids.Record) error {
	for _, guid := range children[parent] {
		rec, ok := items[guid]
		if !ok {
			continue
		}
		if rec.Type.IsFolder() {
			name := ""
			if rec.FolderName != nil {
				name = *rec.FolderName
			}
			fmt.Fprintf(w, "    <DT><H3>%s</H3>\n    <DL><p>\n", html.EscapeString(name))
			if err := renderChildren(w, guid, children, items); err != nil {
				return err
			}
			io.WriteString(w, "    </DL><p>\n")
			continue
		}

		title := ""
		if rec.Title != nil {
			title = *rec.Title
		}
		uri := ""
		if rec.BookmarkURI != nil {
			uri = *rec.BookmarkURI
		}
		fmt.Fprintf(w, "    <DT><A HREF=\"%s\">%s</A>\n", html.EscapeString(uri), html.EscapeString(title))
	}
	return nil
}
