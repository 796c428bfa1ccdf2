package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string {
	return &s
}

func TestBelongsTo(t *testing.T) {
	tests := []struct {
		name   string
		record RawRelated
		want   bool
	}{
		{
			name:   "single id matches",
			record: RawRelated{FriendID: ptr("P1")},
			want:   true,
		},
		{
			name:   "id list contains parent",
			record: RawRelated{FriendIDs: []string{"P0", "P1"}},
			want:   true,
		},
		{
			name:   "embedded friendId matches",
			record: RawRelated{Friends: []FriendRef{{FriendID: ptr("P2")}, {FriendID: ptr("P1")}}},
			want:   true,
		},
		{
			name:   "embedded secondary id matches",
			record: RawRelated{Friends: []FriendRef{{ID: ptr("P1")}}},
			want:   true,
		},
		{
			name:   "no relation fields",
			record: RawRelated{ID: ptr("pet-1"), Name: ptr("Rex")},
			want:   false,
		},
		{
			name: "only other parents",
			record: RawRelated{
				FriendID:  ptr("P2"),
				FriendIDs: []string{"P3"},
				Friends:   []FriendRef{{FriendID: ptr("P4"), ID: ptr("P5")}},
			},
			want: false,
		},
		{
			name:   "embedded ref with nil ids",
			record: RawRelated{Friends: []FriendRef{{}}},
			want:   false,
		},
		{
			name:   "single id mismatch but list matches",
			record: RawRelated{FriendID: ptr("P2"), FriendIDs: []string{"P1"}},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BelongsTo(tt.record, "P1"))
		})
	}
}

func TestBelongsToMultipleShapesIsPure(t *testing.T) {
	record := RawRelated{
		FriendID: ptr("P1"),
		Friends:  []FriendRef{{FriendID: ptr("P1")}},
	}
	before := record

	assert.True(t, BelongsTo(record, "P1"))
	assert.True(t, BelongsTo(record, "P1"))
	assert.Equal(t, before, record)

	matched := Matching([]RawRelated{record}, "P1")
	assert.Len(t, matched, 1)
}

func TestNormalizeTrimsAndCoalesces(t *testing.T) {
	pet := Normalize(KindPets, RawRelated{
		ID:   ptr(" pet-1 "),
		Name: ptr("  Rex\t"),
		Kind: ptr("dog"),
	})
	assert.Equal(t, Related{ID: "pet-1", Kind: KindPets, Title: "Rex", Subtitle: "dog", Detail: ""}, pet)

	quote := Normalize(KindQuotes, RawRelated{
		Quote:  ptr("  Stay hungry.  "),
		Author: nil,
	})
	assert.Equal(t, Related{Kind: KindQuotes, Title: "Stay hungry."}, quote)
}

func TestNormalizeAllNeverNil(t *testing.T) {
	assert.NotNil(t, NormalizeAll(KindPets, nil))
	assert.Empty(t, NormalizeAll(KindPets, nil))
}
