package quote

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

// QuoteRepository persists quotes and their many-to-many friend links.
type QuoteRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Quote, int, error)
	ListByFriend(ctx context.Context, friendID string) ([]models.Quote, error)
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error)
	Delete(ctx context.Context, id string) (*models.Quote, error)
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
	tableName     = "quotes"
	linkTableName = "friend_quotes"
)

var columns = []string{"id", "quote", "author", "seeded", "created_at", "updated_at"}

type quoteRow struct {
	ID        string    `db:"id"`
	Quote     string    `db:"quote"`
	Author    string    `db:"author"`
	Seeded    bool      `db:"seeded"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type linkRow struct {
	QuoteID string `db:"quote_id"`
	models.QuoteFriend
}

func friendSubquery(friendID string) *sqlbuilder.SelectBuilder {
	sub := database.NewSelectBuilder()
	sub.Select("quote_id")
	sub.From(linkTableName)
	sub.Where(sub.Equal("friend_id", friendID))
	return sub
}

func applyFilter(sb *sqlbuilder.SelectBuilder, q models.ListQuery) {
	sb.Where(sb.Equal("seeded", q.Seeded))
	if q.FriendID != "" {
		sb.Where(sb.In("id", friendSubquery(q.FriendID)))
	}
	if q.Filter != "" {
		pattern := database.ContainsPattern(q.Filter)
		sb.Where(sb.Or(
			sb.Like("LOWER(quote)", pattern),
			sb.Like("LOWER(author)", pattern),
		))
	}
}

func (r *Repository) List(ctx context.Context, q models.ListQuery) ([]models.Quote, int, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.List")
	defer span.End()

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	applyFilter(countSb, q)
	countQuery, countArgs := countSb.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count quotes")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count quotes")
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	applyFilter(sb, q)
	sb.OrderBy("author", "id")
	sb.Limit(q.PageSize)
	sb.Offset(q.Offset())
	query, args := sb.Build()

	quotes, err := r.selectWithFriends(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *Repository) ListByFriend(ctx context.Context, friendID string) ([]models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.ListByFriend")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.In("id", friendSubquery(friendID)))
	sb.OrderBy("author", "id")
	query, args := sb.Build()

	return r.selectWithFriends(ctx, query, args)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	quotes, err := r.selectWithFriends(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "quote %s not found", id)
	}
	return &quotes[0], nil
}

// selectWithFriends runs a quote query and attaches the linked friends of
// every returned quote in one extra query.
func (r *Repository) selectWithFriends(ctx context.Context, query string, args []any) ([]models.Quote, error) {
	var rows []quoteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to select quotes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list quotes")
	}
	if len(rows) == 0 {
		return []models.Quote{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	sb := database.NewSelectBuilder()
	sb.Select("fq.quote_id", "f.id AS friend_id", "f.first_name", "f.last_name")
	sb.From(linkTableName + " fq")
	sb.Join("friends f", "f.id = fq.friend_id")
	sb.Where(sb.In("fq.quote_id", database.Args(ids)...))
	sb.OrderBy("f.last_name", "f.first_name")
	linkQuery, linkArgs := sb.Build()

	var links []linkRow
	if err := r.db.SelectContext(ctx, &links, linkQuery, linkArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to select quote friends")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list quotes")
	}

	byQuote := make(map[string][]models.QuoteFriend, len(rows))
	for _, link := range links {
		byQuote[link.QuoteID] = append(byQuote[link.QuoteID], link.QuoteFriend)
	}

	quotes := make([]models.Quote, len(rows))
	for i, row := range rows {
		friends := byQuote[row.ID]
		if friends == nil {
			friends = []models.QuoteFriend{}
		}
		friendIDs := make([]string, len(friends))
		for j, friend := range friends {
			friendIDs[j] = friend.FriendID
		}

		quotes[i] = models.Quote{
			ID:        row.ID,
			Quote:     row.Quote,
			Author:    row.Author,
			Seeded:    row.Seeded,
			FriendIDs: friendIDs,
			Friends:   friends,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return quotes, nil
}

func (r *Repository) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Create")
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
	ib.Cols(columns...)
	ib.Values(id, req.Quote, req.Author, req.Seeded, now, now)
	query, args := ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create quote")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create quote")
	}

	if err := r.linkFriends(ctx, tx, id, req.FriendIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create quote")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      id,
		"friends": len(req.FriendIDs),
	}).Info("created quote")

	return r.GetByID(ctx, id)
}

// Update replaces text, author and the full set of friend links.
func (r *Repository) Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Update")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(
		ub.Assign("quote", req.Quote),
		ub.Assign("author", req.Author),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update quote")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update quote")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "quote %s not found", id)
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(linkTableName)
	db.Where(db.Equal("quote_id", id))
	unlinkQuery, unlinkArgs := db.Build()
	if _, err := tx.ExecContext(ctx, unlinkQuery, unlinkArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to unlink quote friends")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update quote")
	}

	if err := r.linkFriends(ctx, tx, id, req.FriendIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update quote")
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) linkFriends(ctx context.Context, tx database.Tx, quoteID string, friendIDs []string) error {
	if len(friendIDs) == 0 {
		return nil
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(linkTableName)
	ib.Cols("friend_id", "quote_id")
	for _, friendID := range friendIDs {
		ib.Values(friendID, quoteID)
	}
	database.OnConflictDoNothing(ib)
	query, args := ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("quote_id", quoteID).Error("failed to link quote friends")
		return httperror.NewHTTPError(http.StatusBadRequest, "one or more friends do not exist")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Delete")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete quote")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete quote")
	}

	return existing, nil
}
