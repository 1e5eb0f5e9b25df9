// AngelaMos | 2026
// service.go

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/logoforge/internal/config"
	"github.com/angelamos/logoforge/internal/core"
)

type Service struct {
	repo Repository
	cfg  config.HistoryConfig
	now  func() time.Time
}

func NewService(repo Repository, cfg config.HistoryConfig) *Service {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 50
	}
	if cfg.ClaimWindow <= 0 {
		cfg.ClaimWindow = 24 * time.Hour
	}

	return &Service{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (s *Service) Save(ctx context.Context, record *Record) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Status == "" {
		record.Status = StatusSuccess
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return "", err
	}

	return record.ID, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	if userID == "" {
		return nil, fmt.Errorf("list history: %w", core.ErrUnauthorized)
	}

	return s.repo.ListByUser(ctx, userID, s.cfg.ListLimit)
}

// Claim reassigns recent demo records to the user. Only records created
// inside the claim window are transferred; older demo records stay orphaned.
func (s *Service) Claim(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("claim history: %w", core.ErrUnauthorized)
	}

	cutoff := s.now().Add(-s.cfg.ClaimWindow)
	return s.repo.ClaimDemoRecords(ctx, userID, cutoff)
}

func (s *Service) CountAll(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}

func (s *Service) ListRecent(
	ctx context.Context,
	limit int,
) ([]RecordSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListRecent(ctx, limit)
}
