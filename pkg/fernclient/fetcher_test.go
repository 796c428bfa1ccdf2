package fernclient

import (
	"context"
	"errors"
	"testing"

	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/relations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

// fakeRelatedLister answers filtered and unfiltered requests separately and
// records every query.
type fakeRelatedLister struct {
	filtered    []relations.RawRelated
	broad       []relations.RawRelated
	filteredErr error
	broadErr    error
	calls       []RelatedQuery
}

func (f *fakeRelatedLister) ListRelated(ctx context.Context, kind relations.Kind, q RelatedQuery) (models.Page[relations.RawRelated], error) {
	f.calls = append(f.calls, q)
	if q.FriendID != "" {
		if f.filteredErr != nil {
			return models.Page[relations.RawRelated]{}, f.filteredErr
		}
		return models.NewPage(f.filtered, q.PageNr, q.PageSize, len(f.filtered)), nil
	}
	if f.broadErr != nil {
		return models.Page[relations.RawRelated]{}, f.broadErr
	}
	return models.NewPage(f.broad, q.PageNr, q.PageSize, len(f.broad)), nil
}

func TestFetchRelatedTrustsNonEmptyFilteredPage(t *testing.T) {
	lister := &fakeRelatedLister{
		// the api returned a record that does not reference P1; it is still trusted
		filtered: []relations.RawRelated{
			{ID: ptr("pet-1"), Name: ptr(" Rex "), FriendID: ptr("P1")},
			{ID: ptr("pet-2"), Name: ptr("Tom"), FriendID: ptr("P9")},
		},
		broad: []relations.RawRelated{{ID: ptr("pet-3"), FriendID: ptr("P1")}},
	}
	fetcher := NewFetcher(lister, 0, 0, logging.Discard())

	items, err := fetcher.FetchRelated(context.Background(), "P1", relations.KindPets, true)
	require.NoError(t, err)

	require.Len(t, lister.calls, 1)
	assert.Equal(t, RelatedQuery{Seeded: true, FriendID: "P1", PageSize: 200}, lister.calls[0])
	require.Len(t, items, 2)
	assert.Equal(t, "Rex", items[0].Title)
	assert.Equal(t, "pet-2", items[1].ID)
}

func TestFetchRelatedFallsBackToBroadScan(t *testing.T) {
	lister := &fakeRelatedLister{
		broad: []relations.RawRelated{
			{ID: ptr("q1"), Quote: ptr("  Less is more.  "), Author: ptr(" Mies "), FriendIDs: []string{"P0", "P1"}},
			{ID: ptr("q2"), Quote: ptr("Unrelated"), FriendIDs: []string{"P2"}},
			{ID: ptr("q3"), Quote: ptr("Simplicity "), FriendIDs: []string{"P1"}},
		},
	}
	fetcher := NewFetcher(lister, 200, 500, logging.Discard())

	items, err := fetcher.FetchRelated(context.Background(), "P1", relations.KindQuotes, false)
	require.NoError(t, err)

	require.Len(t, lister.calls, 2)
	assert.Equal(t, RelatedQuery{Seeded: false, FriendID: "P1", PageSize: 200}, lister.calls[0])
	assert.Equal(t, RelatedQuery{Seeded: false, PageSize: 500}, lister.calls[1])

	assert.Equal(t, []relations.Related{
		{ID: "q1", Kind: relations.KindQuotes, Title: "Less is more.", Subtitle: "Mies"},
		{ID: "q3", Kind: relations.KindQuotes, Title: "Simplicity"},
	}, items)
}

func TestFetchRelatedEmptyBroadScanIsNotAnError(t *testing.T) {
	lister := &fakeRelatedLister{}
	fetcher := NewFetcher(lister, 0, 0, logging.Discard())

	items, err := fetcher.FetchRelated(context.Background(), "P1", relations.KindPets, true)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Len(t, lister.calls, 2)
}

func TestFetchRelatedFilteredErrorDoesNotFallBack(t *testing.T) {
	lister := &fakeRelatedLister{
		filteredErr: &StatusError{StatusCode: 500, Body: "boom"},
		broad:       []relations.RawRelated{{ID: ptr("pet-1"), FriendID: ptr("P1")}},
	}
	fetcher := NewFetcher(lister, 0, 0, logging.Discard())

	items, err := fetcher.FetchRelated(context.Background(), "P1", relations.KindPets, true)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Len(t, lister.calls, 1)

	var se *StatusError
	assert.True(t, errors.As(err, &se))
}

func TestFetchRelatedBroadScanError(t *testing.T) {
	lister := &fakeRelatedLister{broadErr: errors.New("connection reset")}
	fetcher := NewFetcher(lister, 0, 0, logging.Discard())

	_, err := fetcher.FetchRelated(context.Background(), "P1", relations.KindPets, true)
	assert.ErrorContains(t, err, "connection reset")
}
