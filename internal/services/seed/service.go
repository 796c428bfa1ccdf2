package seed

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/seed"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type SeedRepository interface {
	Insert(ctx context.Context, batch seed.Batch) (models.SeedResult, error)
	DeletePartition(ctx context.Context, seeded bool) (models.SeedResult, error)
}

type OverviewInvalidator interface {
	Invalidate(ctx context.Context)
}

type EventEmitter interface {
	Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error
}

type Service struct {
	logger  ectologger.Logger
	repo    SeedRepository
	profile seed.Profile
	cache   OverviewInvalidator
	emitter EventEmitter
	now     func() time.Time
}

func NewService(logger ectologger.Logger, repo SeedRepository, profile seed.Profile, cache OverviewInvalidator, emitter EventEmitter) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		profile: profile,
		cache:   cache,
		emitter: emitter,
		now:     time.Now,
	}
}

// Seed generates req.Count friends with their relations and stores them in
// the seeded partition. A zero req.Seed draws the seed from the clock.
func (s *Service) Seed(ctx context.Context, req models.SeedRequest) (models.SeedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "seed.Seed")
	defer span.End()

	if _, err := utils.Validate(req); err != nil {
		return models.SeedResult{}, err
	}

	if req.Seed == 0 {
		req.Seed = s.now().UnixNano()
	}

	batch := seed.NewGenerator(s.profile, req.Seed).Generate(req.Count)
	result, err := s.repo.Insert(ctx, batch)
	if err != nil {
		tracing.RecordError(span, err)
		return models.SeedResult{}, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"friends":   result.Friends,
		"addresses": result.Addresses,
		"pets":      result.Pets,
		"quotes":    result.Quotes,
		"seed":      req.Seed,
	}).Info("seeded data")

	s.changed(ctx, events.ActionCreated, true, result)
	return result, nil
}

// Clear removes every row of one partition.
func (s *Service) Clear(ctx context.Context, seeded bool) (models.SeedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "seed.Clear")
	defer span.End()

	result, err := s.repo.DeletePartition(ctx, seeded)
	if err != nil {
		tracing.RecordError(span, err)
		return models.SeedResult{}, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"friends": result.Friends,
		"seeded":  seeded,
	}).Info("cleared partition")

	s.changed(ctx, events.ActionDeleted, seeded, result)
	return result, nil
}

func (s *Service) changed(ctx context.Context, action string, seeded bool, result models.SeedResult) {
	s.cache.Invalidate(ctx)
	if err := s.emitter.Emit(ctx, events.EntitySeed, action, "", seeded, result); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to publish seed change")
	}
}
