// Package services holds the resource server's business logic on top of
// the repositories and blob storage.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/dbx"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
	"github.com/dmitrijs2005/memokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memokeeper/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultCreatorID owns every resource while the server has no user accounts.
const DefaultCreatorID int32 = 1

const genericContentType = "application/octet-stream"

var now = time.Now

// Upload is a blob received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type ResourceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStorage
	maxMiB      int
	logger      logging.Logger
}

func NewResourceService(db *sql.DB, rm repomanager.RepositoryManager, blobs storage.BlobStorage,
	maxUploadSizeMiB int, logger logging.Logger) *ResourceService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ResourceService{
		db:          db,
		repomanager: rm,
		blobs:       blobs,
		maxMiB:      maxUploadSizeMiB,
		logger:      logger.With("component", "resources"),
	}
}

func (s *ResourceService) MaxUploadSizeMiB() int {
	return s.maxMiB
}

func (s *ResourceService) List(ctx context.Context, find models.ResourceFind) ([]*models.Resource, error) {
	if find.Limit < 0 || find.Offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", common.ErrorValidation)
	}
	if find.Offset > 0 && find.Limit == 0 {
		return nil, fmt.Errorf("%w: offset requires a limit", common.ErrorValidation)
	}
	return s.repomanager.Resources(s.db).List(ctx, find)
}

// Create registers a resource without a stored payload.
func (s *ResourceService) Create(ctx context.Context, in models.ResourceCreate) (*models.Resource, error) {
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", common.ErrorValidation)
	}

	ts := now().Unix()
	res := &models.Resource{
		CreatorID:    DefaultCreatorID,
		CreatedTs:    ts,
		UpdatedTs:    ts,
		Filename:     filename,
		ExternalLink: in.ExternalLink,
		Type:         in.Type,
	}
	if err := s.repomanager.Resources(s.db).Create(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "resource created", "id", res.ID, "filename", res.Filename)
	return res, nil
}

// Upload stores the blob and then its record. A generic or missing content
// type is replaced by the sniffed one. The blob is removed again when the
// record cannot be written.
func (s *ResourceService) Upload(ctx context.Context, in Upload) (*models.Resource, error) {
	if in.Size > int64(s.maxMiB)*common.MiB {
		return nil, fmt.Errorf("%w: %d bytes", common.ErrorFileTooLarge, in.Size)
	}
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", common.ErrorValidation)
	}

	contentType, err := s.contentType(in)
	if err != nil {
		return nil, err
	}

	key := storage.NewKey()
	if err := s.blobs.Put(ctx, key, contentType, in.Body, in.Size); err != nil {
		return nil, err
	}

	ts := now().Unix()
	res := &models.Resource{
		CreatorID:  DefaultCreatorID,
		CreatedTs:  ts,
		UpdatedTs:  ts,
		Filename:   filename,
		Type:       contentType,
		Size:       in.Size,
		StorageKey: key,
	}
	if err := s.repomanager.Resources(s.db).Create(ctx, res); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.logger.Error(ctx, "orphaned blob", "key", key, "error", derr)
		}
		return nil, err
	}

	s.logger.Info(ctx, "resource uploaded", "id", res.ID, "filename", res.Filename, "size", res.Size, "type", res.Type)
	return res, nil
}

func (s *ResourceService) contentType(in Upload) (string, error) {
	declared := strings.TrimSpace(in.ContentType)
	if declared != "" && declared != genericContentType {
		return declared, nil
	}

	mt, err := mimetype.DetectReader(in.Body)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := in.Body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return mt.String(), nil
}

func (s *ResourceService) Patch(ctx context.Context, patch models.ResourcePatch) (*models.Resource, error) {
	if patch.Filename != nil && strings.TrimSpace(*patch.Filename) == "" {
		return nil, fmt.Errorf("%w: filename must not be empty", common.ErrorValidation)
	}
	patch.UpdatedTs = now().Unix()

	res, err := s.repomanager.Resources(s.db).Patch(ctx, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "resource patched", "id", res.ID)
	return res, nil
}

// Delete removes the record and its blob in one transaction: the row only
// disappears when the blob could be dropped.
func (s *ResourceService) Delete(ctx context.Context, id int32) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := s.repomanager.Resources(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if res.StorageKey == "" {
			return nil
		}
		return s.blobs.Delete(ctx, res.StorageKey)
	})
	if err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}

	s.logger.Info(ctx, "resource deleted", "id", id)
	return nil
}

// OpenBlob returns the resource and its payload. filename must match the
// stored one. Link-only resources come back with a nil reader.
func (s *ResourceService) OpenBlob(ctx context.Context, id int32, filename string) (*models.Resource, io.ReadCloser, error) {
	res, err := s.repomanager.Resources(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if res.Filename != filename {
		return nil, nil, common.ErrorNotFound
	}
	if res.StorageKey == "" {
		if res.ExternalLink != "" {
			return res, nil, nil
		}
		return nil, nil, common.ErrorNotFound
	}

	rc, err := s.blobs.Get(ctx, res.StorageKey)
	if errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Warn(ctx, "resource blob missing", "id", id, "key", res.StorageKey)
		return nil, nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return res, rc, nil
}
