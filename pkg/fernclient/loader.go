package fernclient

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/relations"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultFriendScanPageSize = 100
	DefaultFriendScanMaxPages = 50
)

// FriendLister reads one page of the light friends listing.
type FriendLister interface {
	ListFriends(ctx context.Context, q FriendQuery) (models.Page[models.Friend], error)
}

// RelatedFetcher fetches the related records of one friend.
type RelatedFetcher interface {
	FetchRelated(ctx context.Context, parentID string, kind relations.Kind, seeded bool) ([]relations.Related, error)
}

// CollectionResult is the outcome of one related-collection fetch: either
// Items or Err is set.
type CollectionResult struct {
	Kind  relations.Kind
	Items []relations.Related
	Err   error
}

// FriendDetails is a friend with its related collections. Pets and Quotes are
// never nil; a collection that failed to load is empty and has a diagnostic.
// Diagnostics are shown to users, so they never carry the underlying error.
type FriendDetails struct {
	Friend      models.Friend
	Pets        []relations.Related
	Quotes      []relations.Related
	Diagnostics []string
}

// Partial reports whether any collection failed to load.
func (d FriendDetails) Partial() bool {
	return len(d.Diagnostics) > 0
}

type Loader struct {
	friends  FriendLister
	fetcher  RelatedFetcher
	pageSize int
	maxPages int
	logger   ectologger.Logger
}

func NewLoader(friends FriendLister, fetcher RelatedFetcher, pageSize, maxPages int, logger ectologger.Logger) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultFriendScanPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultFriendScanMaxPages
	}
	return &Loader{
		friends:  friends,
		fetcher:  fetcher,
		pageSize: pageSize,
		maxPages: maxPages,
		logger:   logger,
	}
}

// LoadDetails locates the friend through the light listing and loads its pets
// and quotes. found is false when the friend is not within the scanned pages.
// Errors are returned only when the listing itself fails.
func (l *Loader) LoadDetails(ctx context.Context, parentID string, seeded bool) (FriendDetails, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "fernclient.Loader.LoadDetails",
		attribute.String("friend_id", parentID),
		attribute.Bool("seeded", seeded),
	)
	defer span.End()

	friend, found, err := l.findFriend(ctx, parentID, seeded)
	if err != nil {
		tracing.RecordError(span, err)
		return FriendDetails{}, false, err
	}
	if !found {
		return FriendDetails{}, false, nil
	}

	details := FriendDetails{
		Friend: friend,
		Pets:   []relations.Related{},
		Quotes: []relations.Related{},
	}

	for _, kind := range relations.Kinds {
		result := l.fetchCollection(ctx, parentID, kind, seeded)
		details.merge(result)
		if result.Err != nil {
			metrics.PartialLoadsTotal.WithLabelValues(string(kind)).Inc()
			l.logger.WithContext(ctx).WithError(result.Err).WithFields(map[string]any{
				"kind":      kind,
				"friend_id": parentID,
			}).Warn("related collection failed to load, rendering partial details")
		}
	}

	return details, true, nil
}

func (l *Loader) findFriend(ctx context.Context, parentID string, seeded bool) (models.Friend, bool, error) {
	scanned := 0
	defer func() {
		metrics.FriendScanPages.Observe(float64(scanned))
	}()

	for pageNr := 0; pageNr < l.maxPages; pageNr++ {
		page, err := l.friends.ListFriends(ctx, FriendQuery{
			Seeded:   seeded,
			PageNr:   pageNr,
			PageSize: l.pageSize,
		})
		if err != nil {
			return models.Friend{}, false, fmt.Errorf("failed to list friends page %d: %w", pageNr, err)
		}
		scanned++

		for _, friend := range page.Items {
			if friend.ID == parentID {
				return friend, true, nil
			}
		}

		if len(page.Items) == 0 || pageNr+1 >= page.TotalPages() {
			break
		}
	}

	return models.Friend{}, false, nil
}

func (l *Loader) fetchCollection(ctx context.Context, parentID string, kind relations.Kind, seeded bool) CollectionResult {
	items, err := l.fetcher.FetchRelated(ctx, parentID, kind, seeded)
	if err != nil {
		return CollectionResult{Kind: kind, Err: err}
	}
	return CollectionResult{Kind: kind, Items: items}
}

func (d *FriendDetails) merge(result CollectionResult) {
	items := result.Items
	if result.Err != nil {
		d.Diagnostics = append(d.Diagnostics, fmt.Sprintf("Could not load %s.", result.Kind))
		items = nil
	}
	if items == nil {
		items = []relations.Related{}
	}

	switch result.Kind {
	case relations.KindPets:
		d.Pets = items
	case relations.KindQuotes:
		d.Quotes = items
	}
}
