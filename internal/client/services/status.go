package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/memokeeper/internal/client/client"
	"github.com/dmitrijs2005/memokeeper/internal/client/models"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
)

// LimitProvider supplies the upload size limit. It is consulted every time
// an upload is validated.
type LimitProvider interface {
	MaxUploadSizeMiB() int
}

// SystemStatusService tracks the server's advertised status. Until the
// first successful Refresh the configured fallback limit is used.
type SystemStatusService struct {
	client client.Client
	logger logging.Logger
	maxMiB atomic.Int64
}

func NewSystemStatusService(c client.Client, fallbackMiB int, logger logging.Logger) *SystemStatusService {
	s := &SystemStatusService{client: c, logger: logger}
	s.maxMiB.Store(int64(fallbackMiB))
	return s
}

func (s *SystemStatusService) MaxUploadSizeMiB() int {
	return int(s.maxMiB.Load())
}

// Refresh re-reads the status from the server and adopts its upload limit.
func (s *SystemStatusService) Refresh(ctx context.Context) (*models.SystemStatus, error) {
	st, err := s.client.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh status: %w", err)
	}

	if st.MaxUploadSizeMiB > 0 {
		prev := s.maxMiB.Swap(int64(st.MaxUploadSizeMiB))
		if prev != int64(st.MaxUploadSizeMiB) {
			s.logger.Info(ctx, "upload limit changed", "from_mib", prev, "to_mib", st.MaxUploadSizeMiB)
		}
	} else {
		s.logger.Warn(ctx, "server reported no upload limit, keeping current", "mib", s.MaxUploadSizeMiB())
	}
	return st, nil
}

func (s *SystemStatusService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
