package quote

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type QuoteRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Quote, int, error)
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error)
	Delete(ctx context.Context, id string) (*models.Quote, error)
}

type OverviewInvalidator interface {
	Invalidate(ctx context.Context)
}

type EventEmitter interface {
	Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error
}

type Service struct {
	logger  ectologger.Logger
	repo    QuoteRepository
	cache   OverviewInvalidator
	emitter EventEmitter
}

func NewService(logger ectologger.Logger, repo QuoteRepository, cache OverviewInvalidator, emitter EventEmitter) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		cache:   cache,
		emitter: emitter,
	}
}

func (s *Service) List(ctx context.Context, q models.ListQuery) (models.Page[models.Quote], error) {
	ctx, span := tracing.StartSpan(ctx, "quote.List")
	defer span.End()

	quotes, total, err := s.repo.List(ctx, q)
	if err != nil {
		return models.Page[models.Quote]{}, err
	}

	return models.NewPage(quotes, q.PageNr, q.PageSize, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.Get")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "quote %s not found", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.Create")
	defer span.End()

	req, err := validate(req)
	if err != nil {
		return nil, err
	}

	quote, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"quote_id":   quote.ID,
		"friend_ids": quote.FriendIDs,
	}).Info("created quote")

	s.changed(ctx, events.ActionCreated, quote)
	return quote, nil
}

func (s *Service) Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "quote.Update")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "quote %s not found", id)
	}
	req, err := validate(req)
	if err != nil {
		return nil, err
	}

	quote, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithField("quote_id", quote.ID).Info("updated quote")

	s.changed(ctx, events.ActionUpdated, quote)
	return quote, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "quote.Delete")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "quote %s not found", id)
	}

	quote, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithField("quote_id", quote.ID).Info("deleted quote")

	s.changed(ctx, events.ActionDeleted, quote)
	return nil
}

// validate checks the request and drops duplicate friend links.
func validate(req models.QuoteRequest) (models.QuoteRequest, error) {
	req, err := utils.Validate(req)
	if err != nil {
		return req, err
	}

	unique := make([]string, 0, len(req.FriendIDs))
	for _, id := range req.FriendIDs {
		if !ectolinq.Contains(unique, id) {
			unique = append(unique, id)
		}
	}
	req.FriendIDs = unique
	return req, nil
}

func (s *Service) changed(ctx context.Context, action string, quote *models.Quote) {
	s.cache.Invalidate(ctx)
	if err := s.emitter.Emit(ctx, events.EntityQuote, action, quote.ID, quote.Seeded, quote); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("quote_id", quote.ID).Warn("failed to publish quote change")
	}
}
