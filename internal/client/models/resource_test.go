package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConvertRemote_SecondsToMilliseconds(t *testing.T) {
	in := RemoteResource{
		ID: 7, CreatorID: 1, CreatedTs: 1_700_000_000, UpdatedTs: 1_700_000_123,
		Filename: "a.png", Type: "image/png", Size: 12, LinkedMemoAmount: 2,
	}

	got := ConvertRemote(in)

	require.Equal(t, int64(1_700_000_000_000), got.CreatedTs)
	require.Equal(t, int64(1_700_000_123_000), got.UpdatedTs)
	require.Equal(t, ResourceID(7), got.ID)
	require.Equal(t, "a.png", got.Filename)
	require.Equal(t, 2, got.LinkedMemoAmount)
	require.Equal(t, time.Unix(1_700_000_000, 0), got.CreatedAt())
	require.Equal(t, time.Unix(1_700_000_123, 0), got.UpdatedAt())
}

func TestConvertRemoteList_KeepsOrder(t *testing.T) {
	got := ConvertRemoteList([]RemoteResource{{ID: 3, CreatedTs: 1}, {ID: 1, CreatedTs: 2}})
	require.Len(t, got, 2)
	require.Equal(t, ResourceID(3), got[0].ID)
	require.Equal(t, int64(2000), got[1].CreatedTs)

	require.Empty(t, ConvertRemoteList(nil))
}

func TestResource_Helpers(t *testing.T) {
	require.True(t, Resource{Type: "image/jpeg"}.IsImage())
	require.False(t, Resource{Type: "application/pdf"}.IsImage())
	require.True(t, Resource{}.IsUnused())
	require.False(t, Resource{LinkedMemoAmount: 1}.IsUnused())
}

func TestRemoteResource_DecodesWireNames(t *testing.T) {
	raw := `{"id":5,"creatorId":2,"createdTs":10,"updatedTs":11,"filename":"f.txt",
		"externalLink":"","type":"text/plain","size":3,"linkedMemoAmount":0}`

	var r RemoteResource
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.Equal(t, RemoteResource{ID: 5, CreatorID: 2, CreatedTs: 10, UpdatedTs: 11,
		Filename: "f.txt", Type: "text/plain", Size: 3}, r)
}

func TestResourcePatch_OmitsNilFields(t *testing.T) {
	name := "renamed.txt"
	b, err := json.Marshal(ResourcePatch{ID: 9, Filename: &name})
	require.NoError(t, err)
	require.JSONEq(t, `{"filename":"renamed.txt"}`, string(b))
}
