package quote

import (
	"context"
	"testing"

	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	a := "0b4f9d8e-2c11-4b0e-8d7a-3c5e1f9a6b01"
	b := "7e2a1c3d-9f4b-4e6a-a1d2-5c8b9e0f1a23"

	t.Run("drops duplicate links", func(t *testing.T) {
		req, err := validate(models.QuoteRequest{Quote: "q", Author: "a", FriendIDs: []string{a, b, a}})
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, req.FriendIDs)
	})

	t.Run("rejects malformed friend ids", func(t *testing.T) {
		_, err := validate(models.QuoteRequest{Quote: "q", Author: "a", FriendIDs: []string{"x"}})
		var ve *utils.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "friendIds[0]")
	})

	t.Run("requires text", func(t *testing.T) {
		_, err := validate(models.QuoteRequest{Author: "a"})
		var ve *utils.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "quote")
	})
}

type fakeRepo struct{ req models.QuoteRequest }

func (r *fakeRepo) List(ctx context.Context, q models.ListQuery) ([]models.Quote, int, error) {
	return []models.Quote{{ID: "q1"}}, 21, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	return &models.Quote{ID: id}, nil
}

func (r *fakeRepo) Create(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	r.req = req
	return &models.Quote{ID: "q1", FriendIDs: req.FriendIDs}, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error) {
	r.req = req
	return &models.Quote{ID: id, FriendIDs: req.FriendIDs}, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (*models.Quote, error) {
	return &models.Quote{ID: id}, nil
}

type fakeCache struct{ invalidated int }

func (c *fakeCache) Invalidate(ctx context.Context) { c.invalidated++ }

type fakeEmitter struct{ actions []string }

func (e *fakeEmitter) Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error {
	e.actions = append(e.actions, entityType+"."+action)
	return nil
}

func TestCreateAndList(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	emitter := &fakeEmitter{}
	svc := NewService(logging.Discard(), repo, cache, emitter)
	id := "0b4f9d8e-2c11-4b0e-8d7a-3c5e1f9a6b01"

	quote, err := svc.Create(context.Background(), models.QuoteRequest{Quote: "q", Author: "a", FriendIDs: []string{id, id}})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, quote.FriendIDs)
	assert.Equal(t, []string{id}, repo.req.FriendIDs)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, []string{"quote.created"}, emitter.actions)

	page, err := svc.List(context.Background(), models.ListQuery{PageNr: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages())
	assert.False(t, page.HasNext())
}
