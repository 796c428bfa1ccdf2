package friend

import (
	"context"
	"database/sql"
	"fmt"
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

// FriendRepository persists friends and their single address.
type FriendRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Friend, int, error)
	GetByID(ctx context.Context, id string) (*models.Friend, error)
	Create(ctx context.Context, req models.FriendRequest) (*models.Friend, error)
	Update(ctx context.Context, id string, req models.FriendRequest) (*models.Friend, error)
	Delete(ctx context.Context, id string) (*models.Friend, error)
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

const (
	tableName        = "friends"
	addressTableName = "addresses"
)

var selectColumns = []string{
	"f.id", "f.first_name", "f.last_name", "f.email", "f.birthday", "f.seeded", "f.created_at", "f.updated_at",
	"a.id AS address_id", "a.street_address", "a.zip_code", "a.city", "a.country",
}

type friendRow struct {
	ID            string         `db:"id"`
	FirstName     string         `db:"first_name"`
	LastName      string         `db:"last_name"`
	Email         string         `db:"email"`
	Birthday      sql.NullTime   `db:"birthday"`
	Seeded        bool           `db:"seeded"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	AddressID     sql.NullString `db:"address_id"`
	StreetAddress sql.NullString `db:"street_address"`
	ZipCode       sql.NullString `db:"zip_code"`
	City          sql.NullString `db:"city"`
	Country       sql.NullString `db:"country"`
}

func (r friendRow) toModel() models.Friend {
	friend := models.Friend{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Seeded:    r.Seeded,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Birthday.Valid {
		birthday := r.Birthday.Time.Format(models.DateLayout)
		friend.Birthday = &birthday
	}
	if r.AddressID.Valid {
		friend.Address = &models.Address{
			ID:            r.AddressID.String,
			StreetAddress: r.StreetAddress.String,
			ZipCode:       r.ZipCode.String,
			City:          r.City.String,
			Country:       r.Country.String,
		}
	}
	return friend
}

func newSelect() *sqlbuilder.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From(tableName + " f")
	sb.JoinWithOption(sqlbuilder.LeftJoin, addressTableName+" a", "a.friend_id = f.id")
	return sb
}

// applyFilter matches the filter text against names, email and address.
func applyFilter(sb *sqlbuilder.SelectBuilder, q models.ListQuery) {
	sb.Where(sb.Equal("f.seeded", q.Seeded))
	if q.Filter == "" {
		return
	}
	pattern := database.ContainsPattern(q.Filter)
	sb.Where(sb.Or(
		sb.Like("LOWER(f.first_name)", pattern),
		sb.Like("LOWER(f.last_name)", pattern),
		sb.Like("LOWER(f.email)", pattern),
		sb.Like("LOWER(a.city)", pattern),
		sb.Like("LOWER(a.country)", pattern),
	))
}

// List returns one 0-based page of friends with their address and the total
// number of matches.
func (r *Repository) List(ctx context.Context, q models.ListQuery) ([]models.Friend, int, error) {
	ctx, span := tracing.StartSpan(ctx, "FriendRepository.List")
	defer span.End()

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName + " f")
	countSb.JoinWithOption(sqlbuilder.LeftJoin, addressTableName+" a", "a.friend_id = f.id")
	applyFilter(countSb, q)
	countQuery, countArgs := countSb.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count friends")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count friends")
	}

	sb := newSelect()
	applyFilter(sb, q)
	sb.OrderBy("f.last_name", "f.first_name", "f.id")
	sb.Limit(q.PageSize)
	sb.Offset(q.Offset())
	query, args := sb.Build()

	var rows []friendRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list friends")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list friends")
	}

	friends := make([]models.Friend, len(rows))
	for i, row := range rows {
		friends[i] = row.toModel()
	}

	return friends, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "FriendRepository.GetByID")
	defer span.End()

	sb := newSelect()
	sb.Where(sb.Equal("f.id", id))
	query, args := sb.Build()

	var row friendRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if database.IsNoRows(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "friend %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get friend")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get friend")
	}

	friend := row.toModel()
	return &friend, nil
}

func (r *Repository) Create(ctx context.Context, req models.FriendRequest) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "FriendRepository.Create")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "first_name", "last_name", "email", "birthday", "seeded", "created_at", "updated_at")
	ib.Values(id, req.FirstName, req.LastName, req.Email, req.Birthday, req.Seeded, now, now)
	query, args := ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create friend")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create friend")
	}

	if req.Address != nil {
		if err := r.upsertAddress(ctx, tx, id, *req.Address, req.Seeded, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create friend")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":     id,
		"seeded": req.Seeded,
	}).Info("created friend")

	return r.GetByID(ctx, id)
}

// Update replaces the scalar fields. A nil address keeps the stored one
// unless RemoveAddress is set.
func (r *Repository) Update(ctx context.Context, id string, req models.FriendRequest) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "FriendRepository.Update")
	defer span.End()

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(
		ub.Assign("first_name", req.FirstName),
		ub.Assign("last_name", req.LastName),
		ub.Assign("email", req.Email),
		ub.Assign("birthday", req.Birthday),
		ub.Assign("updated_at", now),
	)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update friend")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update friend")
	}

	switch {
	case req.Address != nil:
		if err := r.upsertAddress(ctx, tx, id, *req.Address, existing.Seeded, now); err != nil {
			return nil, err
		}
	case req.RemoveAddress && existing.Address != nil:
		db := database.NewDeleteBuilder()
		db.DeleteFrom(addressTableName)
		db.Where(db.Equal("friend_id", id))
		query, args := db.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("failed to remove address")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to remove address")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update friend")
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) upsertAddress(ctx context.Context, tx database.Tx, friendID string, req models.AddressRequest, seeded bool, now time.Time) error {
	ib := database.NewInsertBuilder()
	ib.InsertInto(addressTableName)
	ib.Cols("id", "friend_id", "street_address", "zip_code", "city", "country", "seeded", "created_at", "updated_at")
	ib.Values(uuid.New().String(), friendID, req.StreetAddress, req.ZipCode, req.City, req.Country, seeded, now, now)

	database.OnConflictUpdate(ib, []string{"friend_id"}, "street_address", "zip_code", "city", "country", "updated_at")
	query, args := ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("friend_id", friendID).Error("failed to upsert address")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save address")
	}
	return nil
}

// Delete removes the friend; pets, address and quote links cascade.
func (r *Repository) Delete(ctx context.Context, id string) (*models.Friend, error) {
	ctx, span := tracing.StartSpan(ctx, "FriendRepository.Delete")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete friend")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to delete friend %s", id))
	}

	r.logger.WithContext(ctx).WithField("id", id).Info("deleted friend")
	return existing, nil
}
