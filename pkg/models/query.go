package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000

	// MaxOffset bounds the row offset of a page.
	MaxOffset = math.MaxInt32
)

// ListQuery is the parsed query string of a collection endpoint.
type ListQuery struct {
	Seeded   bool
	Filter   string
	FriendID string
	PageNr   int
	PageSize int
}

// Offset is the row offset of the 0-based page, capped at MaxOffset.
func (q ListQuery) Offset() int {
	if q.PageNr <= 0 || q.PageSize <= 0 {
		return 0
	}
	if q.PageNr > MaxOffset/q.PageSize {
		return MaxOffset
	}
	return q.PageNr * q.PageSize
}

// OverviewRow is one country/city group of the overview report.
type OverviewRow struct {
	Country string `json:"country" db:"country"`
	City    string `json:"city" db:"city"`
	Friends int    `json:"friends" db:"friends"`
	Pets    int    `json:"pets" db:"pets"`
	Quotes  int    `json:"quotes" db:"quotes"`
}

// SeedRequest asks the api to generate seeded data.
type SeedRequest struct {
	Count int   `json:"count" validate:"required,min=1,max=10000"`
	Seed  int64 `json:"seed"`
}

// SeedResult reports the rows written or removed by a seed operation.
type SeedResult struct {
	Friends   int `json:"friends"`
	Addresses int `json:"addresses"`
	Pets      int `json:"pets"`
	Quotes    int `json:"quotes"`
}
