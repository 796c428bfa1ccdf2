package overview

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"
)

type OverviewRepository interface {
	ByLocation(ctx context.Context, seeded bool) ([]models.OverviewRow, error)
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

// ByLocation counts friends, pets and linked quotes per country and city.
// Friends without an address are grouped under empty country and city.
func (r *Repository) ByLocation(ctx context.Context, seeded bool) ([]models.OverviewRow, error) {
	ctx, span := tracing.StartSpan(ctx, "OverviewRepository.ByLocation")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"COALESCE(a.country, '') AS country",
		"COALESCE(a.city, '') AS city",
		"COUNT(DISTINCT f.id) AS friends",
		"COUNT(DISTINCT p.id) AS pets",
		"COUNT(DISTINCT fq.quote_id) AS quotes",
	)
	sb.From("friends f")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "addresses a", "a.friend_id = f.id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "pets p", "p.friend_id = f.id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "friend_quotes fq", "fq.friend_id = f.id")
	sb.Where(sb.Equal("f.seeded", seeded))
	sb.GroupBy("COALESCE(a.country, '')", "COALESCE(a.city, '')")
	sb.OrderBy("country", "city")
	query, args := sb.Build()

	rows := []models.OverviewRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to build overview")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to build overview")
	}

	return rows, nil
}
