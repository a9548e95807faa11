package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memokeeper/internal/client/client"
	"github.com/dmitrijs2005/memokeeper/internal/client/models"
	"github.com/dmitrijs2005/memokeeper/internal/client/store"
	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/netx"
)

// DefaultPageLimit is used by FetchPage when no positive limit is given.
const DefaultPageLimit = 20

// ResourceService keeps the local resource collection in line with the
// server. Every operation is a single request; the collection is changed
// only after the server has answered successfully.
type ResourceService interface {
	State() []models.Resource
	Subscribe(fn func(store.Event)) func()
	ResourceURL(r models.Resource) string

	FetchAll(ctx context.Context) ([]models.Resource, error)
	FetchPage(ctx context.Context, limit, offset int) ([]models.Resource, error)
	Create(ctx context.Context, create models.ResourceCreate) (models.Resource, error)
	UploadSingle(ctx context.Context, file models.UploadFile, onProgress ProgressFunc) (models.Resource, error)
	UploadBatch(ctx context.Context, files []models.UploadFile, onProgress BatchProgressFunc) ([]models.Resource, error)
	DeleteByID(ctx context.Context, id models.ResourceID) error
	Patch(ctx context.Context, patch models.ResourcePatch) (models.Resource, error)
}

type resourceService struct {
	client client.Client
	store  *store.ResourceStore
	limits LimitProvider
	logger logging.Logger
}

func NewResourceService(c client.Client, st *store.ResourceStore, limits LimitProvider, logger logging.Logger) ResourceService {
	return &resourceService{client: c, store: st, limits: limits, logger: logger.With("component", "resources")}
}

func (s *resourceService) State() []models.Resource {
	return s.store.Snapshot()
}

func (s *resourceService) Subscribe(fn func(store.Event)) func() {
	return s.store.Subscribe(fn)
}

func (s *resourceService) ResourceURL(r models.Resource) string {
	return s.client.ResourceURL(r)
}

func (s *resourceService) FetchAll(ctx context.Context) ([]models.Resource, error) {
	remote, err := s.client.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch resources: %w", err)
	}

	list := models.ConvertRemoteList(remote)
	s.store.Replace(list)

	s.logger.Debug(ctx, "resources fetched", "count", len(list))
	return list, nil
}

func (s *resourceService) FetchPage(ctx context.Context, limit, offset int) ([]models.Resource, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	remote, err := s.client.ListResourcesPage(ctx, models.ResourceFind{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("fetch resources page: %w", err)
	}

	list := models.ConvertRemoteList(remote)
	s.store.Upsert(list)

	s.logger.Debug(ctx, "resource page fetched", "limit", limit, "offset", offset, "count", len(list))
	return list, nil
}

func (s *resourceService) Create(ctx context.Context, create models.ResourceCreate) (models.Resource, error) {
	remote, err := s.client.CreateResource(ctx, create)
	if err != nil {
		return models.Resource{}, fmt.Errorf("create resource: %w", err)
	}

	r := models.ConvertRemote(*remote)
	s.store.Prepend(r)

	s.logger.Info(ctx, "resource created", "id", r.ID, "filename", r.Filename)
	return r, nil
}

func (s *resourceService) UploadSingle(ctx context.Context, file models.UploadFile, onProgress ProgressFunc) (models.Resource, error) {
	if err := s.checkSize(file); err != nil {
		return models.Resource{}, err
	}

	var tracker progressTracker
	r, err := s.upload(ctx, file, func(p float64) {
		if v, ok := tracker.advance(p); ok && onProgress != nil {
			onProgress(v)
		}
	})
	if err != nil {
		return models.Resource{}, err
	}

	s.store.Prepend(r)
	return r, nil
}

// UploadBatch uploads files one after another. Each file owns an equal
// slice of the overall progress. The first oversize file or failed transfer
// stops the batch: files before it stay uploaded and are committed to the
// collection, files after it are never attempted.
func (s *resourceService) UploadBatch(ctx context.Context, files []models.UploadFile, onProgress BatchProgressFunc) ([]models.Resource, error) {
	total := len(files)
	created := make([]models.Resource, 0, total)
	if total == 0 {
		return created, nil
	}

	var tracker progressTracker

	for completed, file := range files {
		if err := s.checkSize(file); err != nil {
			s.commitBatch(ctx, created, total)
			return created, err
		}

		name := file.Filename
		r, err := s.upload(ctx, file, func(p float64) {
			if v, ok := tracker.advance(batchPercent(completed, total, p)); ok && onProgress != nil {
				onProgress(v, name)
			}
		})
		if err != nil {
			s.commitBatch(ctx, created, total)
			return created, err
		}

		created = append(created, r)
	}

	s.commitBatch(ctx, created, total)
	return created, nil
}

func (s *resourceService) DeleteByID(ctx context.Context, id models.ResourceID) error {
	if err := s.client.DeleteResource(ctx, id); err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}

	if !s.store.Remove(id) {
		s.logger.Debug(ctx, "deleted resource was not in local collection", "id", id)
	}

	s.logger.Info(ctx, "resource deleted", "id", id)
	return nil
}

func (s *resourceService) Patch(ctx context.Context, patch models.ResourcePatch) (models.Resource, error) {
	remote, err := s.client.PatchResource(ctx, patch)
	if err != nil {
		return models.Resource{}, fmt.Errorf("patch resource %d: %w", patch.ID, err)
	}

	r := models.ConvertRemote(*remote)
	if r.ID != patch.ID || !s.store.Patch(r) {
		s.logger.Warn(ctx, "patched resource not in local collection", "id", patch.ID, "returned_id", r.ID)
	}
	return r, nil
}

func (s *resourceService) checkSize(file models.UploadFile) error {
	limit := s.limits.MaxUploadSizeMiB()
	if file.Size > int64(limit)*common.MiB {
		return &SizeLimitError{Filename: file.Filename, Size: file.Size, LimitMiB: limit}
	}
	return nil
}

// upload transfers one file and converts the record the server returns.
func (s *resourceService) upload(ctx context.Context, file models.UploadFile, report func(p float64)) (models.Resource, error) {
	report(0)

	remote, err := s.client.UploadResource(ctx, file, func(read, total int64) {
		report(netx.Percent(read, total))
	})
	if err != nil {
		s.logger.Warn(ctx, "upload failed", "filename", file.Filename, "error", err)
		return models.Resource{}, fmt.Errorf("upload %s: %w", file.Filename, err)
	}
	report(100)

	r := models.ConvertRemote(*remote)
	s.logger.Info(ctx, "resource uploaded", "id", r.ID, "filename", r.Filename, "size", r.Size)
	return r, nil
}

// commitBatch prepends the batch in completion order: the first uploaded
// file ends up first. FetchAll later returns the server's newest-first order.
func (s *resourceService) commitBatch(ctx context.Context, created []models.Resource, total int) {
	s.store.Prepend(created...)
	if len(created) < total {
		s.logger.Warn(ctx, "batch upload stopped early", "uploaded", len(created), "total", total)
	}
}
