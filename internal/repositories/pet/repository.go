package pet

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
)

type PetRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Pet, int, error)
	ListByFriend(ctx context.Context, friendID string) ([]models.Pet, error)
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	Create(ctx context.Context, req models.PetRequest) (*models.Pet, error)
	Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error)
	Delete(ctx context.Context, id string) (*models.Pet, error)
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "pets"

var columns = []string{"id", "friend_id", "name", "kind", "mood", "seeded", "created_at", "updated_at"}

type petRow struct {
	ID        string    `db:"id"`
	FriendID  string    `db:"friend_id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	Mood      string    `db:"mood"`
	Seeded    bool      `db:"seeded"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r petRow) toModel() models.Pet {
	return models.Pet{
		ID:        r.ID,
		FriendID:  r.FriendID,
		Name:      r.Name,
		Kind:      r.Kind,
		Mood:      r.Mood,
		Seeded:    r.Seeded,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toModels(rows []petRow) []models.Pet {
	pets := make([]models.Pet, len(rows))
	for i, row := range rows {
		pets[i] = row.toModel()
	}
	return pets
}

func applyFilter(sb *sqlbuilder.SelectBuilder, q models.ListQuery) {
	sb.Where(sb.Equal("seeded", q.Seeded))
	if q.FriendID != "" {
		sb.Where(sb.Equal("friend_id", q.FriendID))
	}
	if q.Filter != "" {
		pattern := database.ContainsPattern(q.Filter)
		sb.Where(sb.Or(
			sb.Like("LOWER(name)", pattern),
			sb.Like("LOWER(kind)", pattern),
			sb.Like("LOWER(mood)", pattern),
		))
	}
}

func (r *Repository) List(ctx context.Context, q models.ListQuery) ([]models.Pet, int, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.List")
	defer span.End()

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	applyFilter(countSb, q)
	countQuery, countArgs := countSb.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count pets")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count pets")
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	applyFilter(sb, q)
	sb.OrderBy("name", "id")
	sb.Limit(q.PageSize)
	sb.Offset(q.Offset())
	query, args := sb.Build()

	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list pets")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list pets")
	}

	return toModels(rows), total, nil
}

func (r *Repository) ListByFriend(ctx context.Context, friendID string) ([]models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.ListByFriend")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("friend_id", friendID))
	sb.OrderBy("name", "id")
	query, args := sb.Build()

	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("friend_id", friendID).Error("failed to list pets of friend")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list pets")
	}

	return toModels(rows), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	var row petRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if database.IsNoRows(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get pet")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get pet")
	}

	pet := row.toModel()
	return &pet, nil
}

func (r *Repository) Create(ctx context.Context, req models.PetRequest) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols(columns...)
	ib.Values(id, req.FriendID, req.Name, req.Kind, req.Mood, req.Seeded, now, now)
	query, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create pet")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create pet")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":        id,
		"friend_id": req.FriendID,
	}).Info("created pet")

	return r.GetByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(
		ub.Assign("friend_id", req.FriendID),
		ub.Assign("name", req.Name),
		ub.Assign("kind", req.Kind),
		ub.Assign("mood", req.Mood),
		ub.Assign("seeded", req.Seeded),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update pet")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update pet")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) (*models.Pet, error) {
	ctx, span := tracing.StartSpan(ctx, "PetRepository.Delete")
	defer span.End()

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", id))
	query, args := db.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete pet")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete pet")
	}

	return existing, nil
}
