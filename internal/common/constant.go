// Package common contains constants and sentinel errors shared by the
// resource client and the resource server.
package common

// RequestIDHeaderName carries the per-request id on both sides of the wire.
const RequestIDHeaderName = "X-Request-Id"

// REST routes of the resource service.
const (
	APIPrefix        = "/api/v1"
	PingPath         = APIPrefix + "/ping"
	StatusPath       = APIPrefix + "/status"
	ResourcePath     = APIPrefix + "/resource"
	ResourceBlobPath = ResourcePath + "/blob"

	// ResourceFilePrefix serves raw blobs as /o/r/{id}/{filename}.
	ResourceFilePrefix = "/o/r"

	// UploadFormField is the multipart field holding the uploaded file.
	UploadFormField = "file"
)

// MiB is the unit of the configured upload size limit.
const MiB = 1024 * 1024
