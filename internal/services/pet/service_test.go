package pet

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "9d7a6a53-6a51-4d35-8b0f-6f2f5d1f7c01"

type fakeRepo struct {
	created []models.PetRequest
}

func (r *fakeRepo) List(ctx context.Context, q models.ListQuery) ([]models.Pet, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "pet %s not found", id)
}

func (r *fakeRepo) Create(ctx context.Context, req models.PetRequest) (*models.Pet, error) {
	r.created = append(r.created, req)
	return &models.Pet{ID: "p1", FriendID: req.FriendID, Name: req.Name, Seeded: req.Seeded}, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, req models.PetRequest) (*models.Pet, error) {
	return &models.Pet{ID: id, FriendID: req.FriendID}, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (*models.Pet, error) {
	return &models.Pet{ID: id}, nil
}

type fakeFriends map[string]models.Friend

func (f fakeFriends) GetByID(ctx context.Context, id string) (*models.Friend, error) {
	friend, ok := f[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "friend %s not found", id)
	}
	return &friend, nil
}

type fakeCache struct{ invalidated int }

func (c *fakeCache) Invalidate(ctx context.Context) { c.invalidated++ }

type fakeEmitter struct{ count int }

func (e *fakeEmitter) Emit(ctx context.Context, entityType, action, entityID string, seeded bool, data any) error {
	e.count++
	return nil
}

func TestCreateInheritsOwnerPartition(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	emitter := &fakeEmitter{}
	svc := NewService(logging.Discard(), repo, fakeFriends{ownerID: {ID: ownerID, Seeded: true}}, cache, emitter)

	pet, err := svc.Create(context.Background(), models.PetRequest{FriendID: ownerID, Name: "Rex", Kind: "dog", Mood: "happy"})
	require.NoError(t, err)
	assert.True(t, pet.Seeded)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, 1, emitter.count)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.PetRequest
		field string
	}{
		{"unknown kind", models.PetRequest{FriendID: ownerID, Name: "Rex", Kind: "dragon", Mood: "happy"}, "kind"},
		{"unknown mood", models.PetRequest{FriendID: ownerID, Name: "Rex", Kind: "dog", Mood: "angry"}, "mood"},
		{"missing name", models.PetRequest{FriendID: ownerID, Kind: "dog", Mood: "happy"}, "name"},
		{"owner does not exist", models.PetRequest{FriendID: "0e9c56a4-1c1f-4a8f-9d0d-5b8c3f0e7a22", Name: "Rex", Kind: "dog", Mood: "happy"}, "friendId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(logging.Discard(), repo, fakeFriends{ownerID: {ID: ownerID}}, &fakeCache{}, &fakeEmitter{})

			_, err := svc.Create(context.Background(), tt.req)
			var ve *utils.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
			assert.Empty(t, repo.created)
		})
	}
}

func TestListReturnsEmptyPage(t *testing.T) {
	svc := NewService(logging.Discard(), &fakeRepo{}, fakeFriends{}, &fakeCache{}, &fakeEmitter{})

	page, err := svc.List(context.Background(), models.ListQuery{PageSize: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages())
}
