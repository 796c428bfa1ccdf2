package pet

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type PetRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Pet, int, error)
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	Create(ctx context.Context, req models.PetRequest) (*models.Pet, error)
	Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error)
	Delete(ctx context.Context, id string) (*models.Pet, error)
}

// FriendGetter resolves the owner of a pet.
type FriendGetter interface {
	GetByID(ctx context.Context, id string) (*models.Friend, error)
}

type OverviewInvalidator interface {
	Invalidate(ctx context.Context)
}

type EventEmitter interface {
	Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error
}

type Service struct {
	logger  ectologger.Logger
	repo    PetRepository
	friends FriendGetter
	cache   OverviewInvalidator
	emitter EventEmitter
}

func NewService(logger ectologger.Logger, repo PetRepository, friends FriendGetter, cache OverviewInvalidator, emitter EventEmitter) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		friends: friends,
		cache:   cache,
		emitter: emitter,
	}
}

func (s *Service) List(ctx context.Context, q models.ListQuery) (models.Page[models.Pet], error) {
	ctx, span := tracing.StartSpan(ctx, "pet.List")
	defer span.End()

	pets, total, err := s.repo.List(ctx, q)
	if err != nil {
		return models.Page[models.Pet]{}, err
	}

	return models.NewPage(pets, q.PageNr, q.PageSize, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "pet.Get")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req models.PetRequest) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "pet.Create")
	defer span.End()

	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	pet, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"pet_id":    pet.ID,
		"friend_id": pet.FriendID,
	}).Info("created pet")

	s.changed(ctx, events.ActionCreated, pet)
	return pet, nil
}

func (s *Service) Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "pet.Update")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
	}
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	pet, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithField("pet_id", pet.ID).Info("updated pet")

	s.changed(ctx, events.ActionUpdated, pet)
	return pet, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "pet.Delete")
	defer span.End()

	if err := utils.ValidateValue(id, "uuid"); err != nil {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
	}

	pet, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithField("pet_id", pet.ID).Info("deleted pet")

	s.changed(ctx, events.ActionDeleted, pet)
	return nil
}

// validate checks the request and that the owner exists. A pet always lives
// in its owner's partition.
func (s *Service) validate(ctx context.Context, req *models.PetRequest) error {
	if _, err := utils.Validate(*req); err != nil {
		return err
	}

	owner, err := s.friends.GetByID(ctx, req.FriendID)
	if err != nil {
		if httperror.GetStatusCode(err) == http.StatusNotFound {
			return utils.NewValidationError("friendId", "The friendId field must reference an existing friend.")
		}
		return err
	}

	req.Seeded = owner.Seeded
	return nil
}

func (s *Service) changed(ctx context.Context, action string, pet *models.Pet) {
	s.cache.Invalidate(ctx)
	if err := s.emitter.Emit(ctx, events.EntityPet, action, pet.ID, pet.Seeded, pet); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("pet_id", pet.ID).Warn("failed to publish pet change")
	}
}
