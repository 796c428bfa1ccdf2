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
	DefaultFilteredPageSize  = 200
	DefaultBroadScanPageSize = 500
)

// RelatedLister reads one page of a related collection.
type RelatedLister interface {
	ListRelated(ctx context.Context, kind relations.Kind, q RelatedQuery) (models.Page[relations.RawRelated], error)
}

// Fetcher reads the related records of one friend. A non-empty filtered page
// is trusted as is. An empty one is ambiguous, since the api may have ignored
// the filter, so it is followed by a single unfiltered page that is filtered
// client side. The broad page is bounded by BroadScanPageSize; records past it
// are not seen.
type Fetcher struct {
	lister            RelatedLister
	filteredPageSize  int
	broadScanPageSize int
	logger            ectologger.Logger
}

func NewFetcher(lister RelatedLister, filteredPageSize, broadScanPageSize int, logger ectologger.Logger) *Fetcher {
	if filteredPageSize <= 0 {
		filteredPageSize = DefaultFilteredPageSize
	}
	if broadScanPageSize <= 0 {
		broadScanPageSize = DefaultBroadScanPageSize
	}
	return &Fetcher{
		lister:            lister,
		filteredPageSize:  filteredPageSize,
		broadScanPageSize: broadScanPageSize,
		logger:            logger,
	}
}

// FetchRelated returns the normalized records of kind that belong to
// parentID within the seeded or unseeded dataset. The result is never nil.
func (f *Fetcher) FetchRelated(ctx context.Context, parentID string, kind relations.Kind, seeded bool) ([]relations.Related, error) {
	ctx, span := tracing.StartSpan(ctx, "fernclient.Fetcher.FetchRelated",
		attribute.String("kind", string(kind)),
		attribute.String("friend_id", parentID),
		attribute.Bool("seeded", seeded),
	)
	defer span.End()

	filtered, err := f.lister.ListRelated(ctx, kind, RelatedQuery{
		Seeded:   seeded,
		FriendID: parentID,
		PageSize: f.filteredPageSize,
	})
	if err != nil {
		metrics.RelatedFetchesTotal.WithLabelValues(string(kind), "error").Inc()
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to list %s for friend %s: %w", kind, parentID, err)
	}

	if len(filtered.Items) > 0 {
		metrics.RelatedFetchesTotal.WithLabelValues(string(kind), "filtered").Inc()
		return relations.NormalizeAll(kind, filtered.Items), nil
	}

	f.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":      kind,
		"friend_id": parentID,
		"page_size": f.broadScanPageSize,
	}).Debug("filtered fetch was empty, scanning unfiltered page")

	broad, err := f.lister.ListRelated(ctx, kind, RelatedQuery{
		Seeded:   seeded,
		PageSize: f.broadScanPageSize,
	})
	if err != nil {
		metrics.RelatedFetchesTotal.WithLabelValues(string(kind), "error").Inc()
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
	}

	metrics.RelatedFetchesTotal.WithLabelValues(string(kind), "broad_scan").Inc()
	return relations.NormalizeAll(kind, relations.Matching(broad.Items, parentID)), nil
}
