package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int
		pageSize   int
		want       int
	}{
		{name: "partial last page", totalCount: 101, pageSize: 50, want: 3},
		{name: "exact multiple", totalCount: 100, pageSize: 50, want: 2},
		{name: "zero page size", totalCount: 101, pageSize: 0, want: 0},
		{name: "negative page size", totalCount: 10, pageSize: -1, want: 0},
		{name: "empty", totalCount: 0, pageSize: 10, want: 0},
		{name: "single item", totalCount: 1, pageSize: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Page[string]{TotalCount: tt.totalCount, PageSize: tt.pageSize}
			assert.Equal(t, tt.want, p.TotalPages())
		})
	}
}

func TestPageNavigation(t *testing.T) {
	p := NewPage[int](nil, 0, 10, 25)
	assert.NotNil(t, p.Items)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())

	p.PageNr = 2
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrevious())
}

func TestListQueryOffset(t *testing.T) {
	tests := []struct {
		name string
		q    ListQuery
		want int
	}{
		{name: "first page", q: ListQuery{PageNr: 0, PageSize: 10}, want: 0},
		{name: "third page", q: ListQuery{PageNr: 2, PageSize: 25}, want: 50},
		{name: "negative page", q: ListQuery{PageNr: -3, PageSize: 10}, want: 0},
		{name: "overflowing page", q: ListQuery{PageNr: math.MaxInt, PageSize: 1000}, want: MaxOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Offset())
		})
	}
}
