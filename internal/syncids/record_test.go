package syncids

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRootGUID(t *testing.T) {
	cases := map[string]GUID{
		"places":  RootGUID,
		"root":    RootGUID,
		"mobile":  MobileGUID,
		"menu":    MenuGUID,
		"toolbar": ToolbarGUID,
		"unfiled": UnfiledGUID,
		"abcdefghijkl": "abcdefghijkl",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeRootGUID(GUID(in)), "normalizing %q", in)
	}
}

func TestRecordSameAsIgnoresGUIDAndMetadata(t *testing.T) {
	title := "Empty"
	favA := int64(1)
	favB := int64(2)
	a := Record{
		GUID:       "emptyempty01",
		Type:       TypeFolder,
		Title:      &title,
		HasDupe:    true,
		FaviconID:  &favA,
		SyncStatus: StatusNew,
	}
	b := Record{
		GUID:       "emptyempty02",
		Type:       TypeFolder,
		Title:      &title,
		HasDupe:    true,
		FaviconID:  &favB,
		SyncStatus: StatusSynced,
	}
	assert.True(t, a.SameAs(b))

	other := "Not Empty"
	c := b
	c.Title = &other
	assert.False(t, a.SameAs(c))
}

func TestRecordSameAsComparesChildrenElementwise(t *testing.T) {
	a := Record{Type: TypeFolder, Children: []GUID{"a___________", "b___________"}}
	b := Record{Type: TypeFolder, Children: []GUID{"b___________", "a___________"}}
	assert.False(t, a.SameAs(b), "child order matters")

	c := Record{Type: TypeFolder, Children: []GUID{"a___________", "b___________"}}
	assert.True(t, a.SameAs(c))
}

func TestRecordJSONNormalizesHistoricalRootNames(t *testing.T) {
	raw := []byte(`{"id":"places","type":"folder","parentid":"menu"}`)
	var r Record
	require.NoError(t, json.Unmarshal(raw, &r))
	assert.Equal(t, RootGUID, r.GUID)
	require.NotNil(t, r.ParentID)
	assert.Equal(t, MenuGUID, *r.ParentID)
}

func TestRecordJSONRoundTrip(t *testing.T) {
	title := "Example"
	r := Record{
		GUID:     "aaaaaaaaaaaa",
		Type:     TypeBookmark,
		Title:    &title,
		Tags:     []string{"x", "y"},
		SyncStatus: StatusNew, // must not be transmitted
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.GUID, decoded.GUID)
	assert.Equal(t, r.Tags, decoded.Tags)
	assert.Equal(t, SyncStatus(""), decoded.SyncStatus, "internal metadata is never on the wire")
}
