package friend

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type FriendRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Friend, int, error)
	GetByID(ctx context.Context, id string) (*models.Friend, error)
	Create(ctx context.Context, req models.FriendRequest) (*models.Friend, error)
	Update(ctx context.Context, id string, req models.FriendRequest) (*models.Friend, error)
	Delete(ctx context.Context, id string) (*models.Friend, error)
}

type PetLister interface {
	ListByFriend(ctx context.Context, friendID string) ([]models.Pet, error)
}

type QuoteLister interface {
	ListByFriend(ctx context.Context, friendID string) ([]models.Quote, error)
}

type OverviewInvalidator interface {
	Invalidate(ctx context.Context)
}

type EventEmitter interface {
	Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error
}

type Service struct {
	logger  ectologger.Logger
	repo    FriendRepository
	pets    PetLister
	quotes  QuoteLister
	cache   OverviewInvalidator
	emitter EventEmitter
	now     func() time.Time
}

func NewService(logger ectologger.Logger, repo FriendRepository, pets PetLister, quotes QuoteLister, cache OverviewInvalidator, emitter EventEmitter) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		pets:    pets,
		quotes:  quotes,
		cache:   cache,
		emitter: emitter,
		now:     time.Now,
	}
}

// List returns the light listing: friends with their address but no relations.
func (s *Service) List(ctx context.Context, q models.ListQuery) (models.Page[models.Friend], error) {
	ctx, span := tracing.StartSpan(ctx, "friend.List")
	defer span.End()

	friends, total, err := s.repo.List(ctx, q)
	if err != nil {
		return models.Page[models.Friend]{}, err
	}

	return models.NewPage(friends, q.PageNr, q.PageSize, total), nil
}

// Get returns the friend with its pets and quotes.
func (s *Service) Get(ctx context.Context, id string) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "friend.Get")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "friend %s not found", id)
	}

	friend, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pets, err := s.pets.ListByFriend(ctx, id)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListByFriend(ctx, id)
	if err != nil {
		return nil, err
	}

	friend.Pets = pets
	friend.Quotes = quotes
	return friend, nil
}

func (s *Service) Create(ctx context.Context, req models.FriendRequest) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "friend.Create")
	defer span.End()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	friend, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"friend_id": friend.ID,
		"seeded":    friend.Seeded,
	}).Info("created friend")

	s.changed(ctx, events.ActionCreated, friend)
	return friend, nil
}

func (s *Service) Update(ctx context.Context, id string, req models.FriendRequest) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "friend.Update")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "friend %s not found", id)
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	friend, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithField("friend_id", friend.ID).Info("updated friend")

	s.changed(ctx, events.ActionUpdated, friend)
	return friend, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "friend.Delete")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "friend %s not found", id)
	}

	friend, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithField("friend_id", friend.ID).Info("deleted friend")

	s.changed(ctx, events.ActionDeleted, friend)
	return nil
}

// validate applies the rules the struct tags cannot express.
func (s *Service) validate(req models.FriendRequest) error {
	if _, err := utils.Validate(req); err != nil {
		return err
	}
	if req.Birthday == nil {
		return nil
	}

	birthday, err := time.Parse(models.DateLayout, *req.Birthday)
	if err != nil {
		return utils.NewValidationError("birthday", "The birthday field must be a date formatted as 2006-01-02.")
	}
	if birthday.After(s.now()) {
		return utils.NewValidationError("birthday", "The birthday field cannot be in the future.")
	}
	return nil
}

// changed drops cached overview rows and publishes the change. A failed
// publish does not undo the write.
func (s *Service) changed(ctx context.Context, action string, friend *models.Friend) {
	s.cache.Invalidate(ctx)
	if err := s.emitter.Emit(ctx, events.EntityFriend, action, friend.ID, friend.Seeded, friend); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("friend_id", friend.ID).Warn("failed to publish friend change")
	}
}
