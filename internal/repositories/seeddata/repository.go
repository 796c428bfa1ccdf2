package seeddata

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/seed"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
)

// batchSize keeps each insert well under postgres' 65535 parameter limit.
const batchSize = 500

type SeedRepository interface {
	Insert(ctx context.Context, batch seed.Batch) (models.SeedResult, error)
	DeletePartition(ctx context.Context, seeded bool) (models.SeedResult, error)
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

// Insert writes a generated batch in one transaction.
func (r *Repository) Insert(ctx context.Context, batch seed.Batch) (models.SeedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "SeedRepository.Insert")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	err = insertChunks(ctx, tx, batch.Friends, func(ib *sqlbuilder.InsertBuilder) {
		ib.InsertInto("friends")
		ib.Cols("id", "first_name", "last_name", "email", "birthday", "seeded", "created_at", "updated_at")
	}, func(ib *sqlbuilder.InsertBuilder, f seed.Friend) {
		ib.Values(f.ID, f.FirstName, f.LastName, f.Email, f.Birthday, true, now, now)
	})
	if err != nil {
		return r.failed(ctx, "friends", err)
	}

	var addresses []seed.Friend
	for _, friend := range batch.Friends {
		if friend.Address != nil {
			addresses = append(addresses, friend)
		}
	}
	err = insertChunks(ctx, tx, addresses, func(ib *sqlbuilder.InsertBuilder) {
		ib.InsertInto("addresses")
		ib.Cols("id", "friend_id", "street_address", "zip_code", "city", "country", "seeded", "created_at", "updated_at")
	}, func(ib *sqlbuilder.InsertBuilder, f seed.Friend) {
		a := f.Address
		ib.Values(uuid.NewSHA1(uuid.NameSpaceOID, []byte(f.ID)).String(), f.ID, a.StreetAddress, a.ZipCode, a.City, a.Country, true, now, now)
	})
	if err != nil {
		return r.failed(ctx, "addresses", err)
	}

	err = insertChunks(ctx, tx, batch.Pets, func(ib *sqlbuilder.InsertBuilder) {
		ib.InsertInto("pets")
		ib.Cols("id", "friend_id", "name", "kind", "mood", "seeded", "created_at", "updated_at")
	}, func(ib *sqlbuilder.InsertBuilder, p seed.Pet) {
		ib.Values(p.ID, p.FriendID, p.Name, p.Kind, p.Mood, true, now, now)
	})
	if err != nil {
		return r.failed(ctx, "pets", err)
	}

	err = insertChunks(ctx, tx, batch.Quotes, func(ib *sqlbuilder.InsertBuilder) {
		ib.InsertInto("quotes")
		ib.Cols("id", "quote", "author", "seeded", "created_at", "updated_at")
	}, func(ib *sqlbuilder.InsertBuilder, q seed.Quote) {
		ib.Values(q.ID, q.Quote, q.Author, true, now, now)
	})
	if err != nil {
		return r.failed(ctx, "quotes", err)
	}

	type link struct{ friendID, quoteID string }
	var links []link
	for _, quote := range batch.Quotes {
		for _, friendID := range quote.FriendIDs {
			links = append(links, link{friendID: friendID, quoteID: quote.ID})
		}
	}
	err = insertChunks(ctx, tx, links, func(ib *sqlbuilder.InsertBuilder) {
		ib.InsertInto("friend_quotes")
		ib.Cols("friend_id", "quote_id")
	}, func(ib *sqlbuilder.InsertBuilder, l link) {
		ib.Values(l.friendID, l.quoteID)
	})
	if err != nil {
		return r.failed(ctx, "friend_quotes", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit seed data")
	}

	result := batch.Result()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"friends":   result.Friends,
		"addresses": result.Addresses,
		"pets":      result.Pets,
		"quotes":    result.Quotes,
	}).Info("inserted seed data")

	return result, nil
}

func (r *Repository) failed(ctx context.Context, table string, err error) (models.SeedResult, error) {
	if database.IsUniqueViolation(err) {
		r.logger.WithContext(ctx).WithError(err).WithField("table", table).Warn("seed data collides with existing rows")
		return models.SeedResult{}, httperror.NewHTTPError(http.StatusConflict, "seed data collides with existing rows, use another seed")
	}
	r.logger.WithContext(ctx).WithError(err).WithField("table", table).Error("failed to insert seed data")
	return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert seed data")
}

func insertChunks[T any](ctx context.Context, tx database.Tx, rows []T, prepare func(*sqlbuilder.InsertBuilder), add func(*sqlbuilder.InsertBuilder, T)) error {
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		ib := database.NewInsertBuilder()
		prepare(ib)
		for _, row := range rows[start:end] {
			add(ib, row)
		}
		query, args := ib.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// DeletePartition removes every row of the seeded or unseeded partition.
// Quotes are removed by their own flag; links and pets cascade from friends.
func (r *Repository) DeletePartition(ctx context.Context, seeded bool) (models.SeedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "SeedRepository.DeletePartition")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var result models.SeedResult
	for _, step := range []struct {
		table string
		count *int
	}{
		{table: "pets", count: &result.Pets},
		{table: "addresses", count: &result.Addresses},
		{table: "quotes", count: &result.Quotes},
		{table: "friends", count: &result.Friends},
	} {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(step.table)
		db.Where(db.Equal("seeded", seeded))
		query, args := db.Build()

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("table", step.table).Error("failed to delete partition")
			return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete data")
		}
		affected, _ := res.RowsAffected()
		*step.count = int(affected)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.SeedResult{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete data")
	}

	return result, nil
}
