// Package models defines server-side data models persisted in the database.
package models

// Resource is a stored file record as kept in the database and sent over
// the wire. Timestamps are unix seconds.
type Resource struct {
	ID               int32  `json:"id"`
	CreatorID        int32  `json:"creatorId"`
	CreatedTs        int64  `json:"createdTs"`
	UpdatedTs        int64  `json:"updatedTs"`
	Filename         string `json:"filename"`
	ExternalLink     string `json:"externalLink"`
	Type             string `json:"type"`
	Size             int64  `json:"size"`
	LinkedMemoAmount int    `json:"linkedMemoAmount"`

	// StorageKey is the object-storage key of the blob; empty for
	// link-only resources.
	StorageKey string `json:"-"`
}

// ResourceCreate is the body of a metadata-only create request.
type ResourceCreate struct {
	Filename     string `json:"filename"`
	ExternalLink string `json:"externalLink"`
	Type         string `json:"type"`
}

// ResourcePatch carries the fields to change. Nil fields are left as is.
type ResourcePatch struct {
	ID           int32   `json:"-"`
	Filename     *string `json:"filename"`
	ExternalLink *string `json:"externalLink"`
	UpdatedTs    int64   `json:"-"`
}

// ResourceFind bounds a list query; Limit 0 means no limit.
type ResourceFind struct {
	Limit  int
	Offset int
}
