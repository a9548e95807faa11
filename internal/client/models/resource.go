// Package models defines the resource types the client works with.
//
// RemoteResource is a record exactly as the server sends it (timestamps in
// unix seconds). Resource is the same record at the module boundary
// (timestamps in unix milliseconds). Only ConvertRemote turns one into the
// other, so a Resource can never be converted twice.
package models

import (
	"io"
	"strings"
	"time"
)

// ResourceID identifies a resource on the server.
type ResourceID = int32

// Resource is an uploaded file record with millisecond timestamps.
type Resource struct {
	ID               ResourceID
	CreatorID        int32
	CreatedTs        int64 // unix milliseconds
	UpdatedTs        int64 // unix milliseconds
	Filename         string
	ExternalLink     string
	Type             string
	Size             int64
	LinkedMemoAmount int
}

func (r Resource) CreatedAt() time.Time { return time.UnixMilli(r.CreatedTs) }
func (r Resource) UpdatedAt() time.Time { return time.UnixMilli(r.UpdatedTs) }

// IsImage reports whether the resource can be previewed as an image.
func (r Resource) IsImage() bool { return strings.HasPrefix(r.Type, "image") }

// IsUnused reports whether no memo references the resource.
func (r Resource) IsUnused() bool { return r.LinkedMemoAmount == 0 }

// RemoteResource is the wire form of a resource; timestamps are unix seconds.
type RemoteResource struct {
	ID               ResourceID `json:"id"`
	CreatorID        int32      `json:"creatorId"`
	CreatedTs        int64      `json:"createdTs"`
	UpdatedTs        int64      `json:"updatedTs"`
	Filename         string     `json:"filename"`
	ExternalLink     string     `json:"externalLink"`
	Type             string     `json:"type"`
	Size             int64      `json:"size"`
	LinkedMemoAmount int        `json:"linkedMemoAmount"`
}

// ConvertRemote maps a wire record to a module record, seconds to milliseconds.
func ConvertRemote(r RemoteResource) Resource {
	return Resource{
		ID:               r.ID,
		CreatorID:        r.CreatorID,
		CreatedTs:        r.CreatedTs * 1000,
		UpdatedTs:        r.UpdatedTs * 1000,
		Filename:         r.Filename,
		ExternalLink:     r.ExternalLink,
		Type:             r.Type,
		Size:             r.Size,
		LinkedMemoAmount: r.LinkedMemoAmount,
	}
}

// ConvertRemoteList converts every record of list.
func ConvertRemoteList(list []RemoteResource) []Resource {
	out := make([]Resource, 0, len(list))
	for _, r := range list {
		out = append(out, ConvertRemote(r))
	}
	return out
}

// ResourceCreate registers a resource without a payload, e.g. an external link.
type ResourceCreate struct {
	Filename     string `json:"filename"`
	ExternalLink string `json:"externalLink"`
	Type         string `json:"type"`
}

// ResourcePatch updates mutable fields of a resource. Nil fields are left as is.
type ResourcePatch struct {
	ID           ResourceID `json:"-"`
	Filename     *string    `json:"filename,omitempty"`
	ExternalLink *string    `json:"externalLink,omitempty"`
}

// ResourceFind bounds a list request.
type ResourceFind struct {
	Limit  int
	Offset int
}

// UploadFile is a file handed to the upload operations.
type UploadFile struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// SystemStatus is the subset of the server status the client needs.
type SystemStatus struct {
	MaxUploadSizeMiB int `json:"maxUploadSizeMiB"`
}
