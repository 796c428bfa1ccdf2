package fernclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/relations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFriendLister struct {
	friends []models.Friend
	// total overrides the reported total count when set
	total int
	err   error
	calls []FriendQuery
}

func (f *fakeFriendLister) ListFriends(ctx context.Context, q FriendQuery) (models.Page[models.Friend], error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return models.Page[models.Friend]{}, f.err
	}

	total := len(f.friends)
	if f.total > 0 {
		total = f.total
	}

	start := q.PageNr * q.PageSize
	if f.total > 0 {
		// endless listing that never contains the requested friend
		items := make([]models.Friend, q.PageSize)
		for i := range items {
			items[i] = models.Friend{ID: fmt.Sprintf("other-%d", start+i)}
		}
		return models.NewPage(items, q.PageNr, q.PageSize, total), nil
	}

	if start >= len(f.friends) {
		return models.NewPage[models.Friend](nil, q.PageNr, q.PageSize, total), nil
	}
	end := min(start+q.PageSize, len(f.friends))
	return models.NewPage(f.friends[start:end], q.PageNr, q.PageSize, total), nil
}

type fakeFetcher struct {
	results map[relations.Kind][]relations.Related
	errs    map[relations.Kind]error
	seeded  []bool
}

func (f *fakeFetcher) FetchRelated(ctx context.Context, parentID string, kind relations.Kind, seeded bool) ([]relations.Related, error) {
	f.seeded = append(f.seeded, seeded)
	if err := f.errs[kind]; err != nil {
		return nil, err
	}
	return f.results[kind], nil
}

func friends(n int) []models.Friend {
	out := make([]models.Friend, n)
	for i := range out {
		out[i] = models.Friend{ID: fmt.Sprintf("F%d", i), FirstName: fmt.Sprintf("Friend %d", i)}
	}
	return out
}

func TestLoadDetailsFindsFriendOnLaterPage(t *testing.T) {
	lister := &fakeFriendLister{friends: friends(25)}
	fetcher := &fakeFetcher{results: map[relations.Kind][]relations.Related{
		relations.KindPets: {{ID: "pet-1", Kind: relations.KindPets, Title: "Rex"}},
	}}
	loader := NewLoader(lister, fetcher, 10, 5, logging.Discard())

	details, found, err := loader.LoadDetails(context.Background(), "F23", false)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "F23", details.Friend.ID)
	assert.Len(t, lister.calls, 3)
	assert.Len(t, details.Pets, 1)
	assert.NotNil(t, details.Quotes)
	assert.Empty(t, details.Quotes)
	assert.False(t, details.Partial())
	assert.Equal(t, []bool{false, false}, fetcher.seeded)
	for _, call := range lister.calls {
		assert.False(t, call.Seeded)
	}
}

func TestLoadDetailsNotFoundWithinScanBound(t *testing.T) {
	lister := &fakeFriendLister{total: 1_000_000}
	fetcher := &fakeFetcher{}
	loader := NewLoader(lister, fetcher, 10, 4, logging.Discard())

	details, found, err := loader.LoadDetails(context.Background(), "missing", true)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, FriendDetails{}, details)
	assert.Len(t, lister.calls, 4)
	assert.Empty(t, fetcher.seeded)
}

func TestLoadDetailsStopsAtLastPage(t *testing.T) {
	lister := &fakeFriendLister{friends: friends(15)}
	loader := NewLoader(lister, &fakeFetcher{}, 10, 50, logging.Discard())

	_, found, err := loader.LoadDetails(context.Background(), "missing", true)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, lister.calls, 2)
}

func TestLoadDetailsPartialFailure(t *testing.T) {
	lister := &fakeFriendLister{friends: friends(3)}
	fetcher := &fakeFetcher{
		results: map[relations.Kind][]relations.Related{
			relations.KindQuotes: {{ID: "q1", Kind: relations.KindQuotes, Title: "Carpe diem"}},
		},
		errs: map[relations.Kind]error{
			relations.KindPets: &StatusError{Method: "GET", URL: "http://api/pets?friendId=F1", StatusCode: 503, Body: "unavailable"},
		},
	}
	loader := NewLoader(lister, fetcher, 10, 5, logging.Discard())

	details, found, err := loader.LoadDetails(context.Background(), "F1", true)
	require.NoError(t, err)
	require.True(t, found)

	assert.NotNil(t, details.Pets)
	assert.Empty(t, details.Pets)
	assert.Len(t, details.Quotes, 1)
	require.Len(t, details.Diagnostics, 1)
	assert.Equal(t, "Could not load pets.", details.Diagnostics[0])
	assert.NotContains(t, details.Diagnostics[0], "friendId")
	assert.NotContains(t, details.Diagnostics[0], "unavailable")
	assert.True(t, details.Partial())
}

func TestLoadDetailsListingError(t *testing.T) {
	lister := &fakeFriendLister{err: errors.New("dial tcp: refused")}
	loader := NewLoader(lister, &fakeFetcher{}, 10, 5, logging.Discard())

	_, found, err := loader.LoadDetails(context.Background(), "F1", true)
	assert.False(t, found)
	assert.ErrorContains(t, err, "refused")
}
