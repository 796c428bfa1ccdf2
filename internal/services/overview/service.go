package overview

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type OverviewRepository interface {
	ByLocation(ctx context.Context, seeded bool) ([]models.OverviewRow, error)
}

type OverviewCache interface {
	Get(ctx context.Context, seeded bool) ([]models.OverviewRow, bool)
	Set(ctx context.Context, seeded bool, rows []models.OverviewRow)
}

type Service struct {
	logger ectologger.Logger
	repo   OverviewRepository
	cache  OverviewCache
}

func NewService(logger ectologger.Logger, repo OverviewRepository, cache OverviewCache) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

// ByLocation returns the per country/city counts of one partition, served
// from the cache when present.
func (s *Service) ByLocation(ctx context.Context, seeded bool) ([]models.OverviewRow, error) {
	ctx, span := tracing.StartSpan(ctx, "overview.ByLocation")
	defer span.End()

	if rows, ok := s.cache.Get(ctx, seeded); ok {
		return rows, nil
	}

	rows, err := s.repo.ByLocation(ctx, seeded)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.OverviewRow{}
	}

	s.cache.Set(ctx, seeded, rows)
	return rows, nil
}
