package resources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/dbx"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
)

const selectResource = `
	SELECT r.id, r.creator_id, r.created_ts, r.updated_ts, r.filename, r.external_link, r.type, r.size, r.storage_key,
		(SELECT COUNT(*) FROM memo_resources mr WHERE mr.resource_id = r.id) AS linked_memo_amount
	FROM resources r`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (*models.Resource, error) {
	var r models.Resource
	err := s.Scan(&r.ID, &r.CreatorID, &r.CreatedTs, &r.UpdatedTs, &r.Filename, &r.ExternalLink,
		&r.Type, &r.Size, &r.StorageKey, &r.LinkedMemoAmount)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns resources newest first. A positive find.Limit pages the result.
func (r *PostgresRepository) List(ctx context.Context, find models.ResourceFind) ([]*models.Resource, error) {
	query := selectResource + ` ORDER BY r.created_ts DESC, r.id DESC`
	var args []any
	if find.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, find.Limit, find.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select resources: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Resource, 0)
	for rows.Next() {
		item, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts res and fills in the generated id.
func (r *PostgresRepository) Create(ctx context.Context, res *models.Resource) error {
	query := `
		INSERT INTO resources (creator_id, created_ts, updated_ts, filename, external_link, type, size, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, res.CreatorID, res.CreatedTs, res.UpdatedTs, res.Filename,
		res.ExternalLink, res.Type, res.Size, res.StorageKey).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns common.ErrorNotFound when no row matches.
func (r *PostgresRepository) GetByID(ctx context.Context, id int32) (*models.Resource, error) {
	res, err := scanResource(r.db.QueryRowContext(ctx, selectResource+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select resource: %w", err)
	}
	return res, nil
}

// Patch updates the non-nil fields and returns the fresh row.
func (r *PostgresRepository) Patch(ctx context.Context, patch models.ResourcePatch) (*models.Resource, error) {
	query := `
		UPDATE resources SET
			filename = COALESCE($2, filename),
			external_link = COALESCE($3, external_link),
			updated_ts = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, patch.ID, patch.Filename, patch.ExternalLink, patch.UpdatedTs)
	if err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return r.GetByID(ctx, patch.ID)
}

// DeleteByID removes the row and returns it so the caller can drop the blob.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int32) (*models.Resource, error) {
	query := `DELETE FROM resources WHERE id = $1 RETURNING id, filename, storage_key`

	res := &models.Resource{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.Filename, &res.StorageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete resource: %w", err)
	}
	return res, nil
}
