// Package resources persists resource records in PostgreSQL.
package resources

import (
	"context"

	"github.com/dmitrijs2005/memokeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, find models.ResourceFind) ([]*models.Resource, error)
	Create(ctx context.Context, r *models.Resource) error
	GetByID(ctx context.Context, id int32) (*models.Resource, error)
	Patch(ctx context.Context, patch models.ResourcePatch) (*models.Resource, error)
	DeleteByID(ctx context.Context, id int32) (*models.Resource, error)
}
