package client

import (
	"context"

	"github.com/dmitrijs2005/memokeeper/internal/client/models"
)

// Client is the remote resource service as the client sees it. Records are
// returned in wire form; converting them is the caller's job.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	GetStatus(ctx context.Context) (*models.SystemStatus, error)

	ListResources(ctx context.Context) ([]models.RemoteResource, error)
	ListResourcesPage(ctx context.Context, find models.ResourceFind) ([]models.RemoteResource, error)
	CreateResource(ctx context.Context, create models.ResourceCreate) (*models.RemoteResource, error)
	UploadResource(ctx context.Context, file models.UploadFile, onProgress func(read, total int64)) (*models.RemoteResource, error)
	DeleteResource(ctx context.Context, id models.ResourceID) error
	PatchResource(ctx context.Context, patch models.ResourcePatch) (*models.RemoteResource, error)

	// ResourceURL is where the resource's content can be fetched from.
	ResourceURL(r models.Resource) string
}
