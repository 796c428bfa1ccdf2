// Package relations decides which related records (pets, quotes) belong to a
// friend, whatever shape the relation arrives in, and maps them to a stable
// display shape.
package relations

import (
	"strings"

	"github.com/Gobusters/ectolinq"
)

// Kind names a related collection.
type Kind string

const (
	KindPets   Kind = "pets"
	KindQuotes Kind = "quotes"
)

// Kinds lists the related collections of a friend in load order.
var Kinds = []Kind{KindPets, KindQuotes}

// FriendRef is an embedded partial friend. The id arrives as friendId or,
// from older payloads, as id.
type FriendRef struct {
	FriendID *string `json:"friendId,omitempty"`
	ID       *string `json:"id,omitempty"`
}

// RawRelated is a related record as decoded from the api. Any combination of
// the relation fields may be present.
type RawRelated struct {
	ID *string `json:"id,omitempty"`

	FriendID  *string     `json:"friendId,omitempty"`
	FriendIDs []string    `json:"friendIds,omitempty"`
	Friends   []FriendRef `json:"friends,omitempty"`

	Name   *string `json:"name,omitempty"`
	Kind   *string `json:"kind,omitempty"`
	Mood   *string `json:"mood,omitempty"`
	Quote  *string `json:"quote,omitempty"`
	Author *string `json:"author,omitempty"`
}

// Related is the normalized record handed to the views.
type Related struct {
	ID       string
	Kind     Kind
	Title    string
	Subtitle string
	Detail   string
}

// BelongsTo reports whether record references parentID through the single
// id, the id list or the embedded friend list. Absent fields never match.
func BelongsTo(record RawRelated, parentID string) bool {
	if record.FriendID != nil && *record.FriendID == parentID {
		return true
	}

	if ectolinq.Contains(record.FriendIDs, parentID) {
		return true
	}

	for _, ref := range record.Friends {
		if ref.FriendID != nil && *ref.FriendID == parentID {
			return true
		}
		if ref.ID != nil && *ref.ID == parentID {
			return true
		}
	}

	return false
}

// Normalize maps a raw record to the display shape. Pets show name, kind and
// mood; quotes show text and author.
func Normalize(kind Kind, record RawRelated) Related {
	related := Related{
		ID:   text(record.ID),
		Kind: kind,
	}

	switch kind {
	case KindQuotes:
		related.Title = text(record.Quote)
		related.Subtitle = text(record.Author)
	default:
		related.Title = text(record.Name)
		related.Subtitle = text(record.Kind)
		related.Detail = text(record.Mood)
	}

	return related
}

// NormalizeAll maps every record, returning a non-nil slice.
func NormalizeAll(kind Kind, records []RawRelated) []Related {
	if len(records) == 0 {
		return []Related{}
	}
	return ectolinq.Map(records, func(record RawRelated) Related {
		return Normalize(kind, record)
	})
}

// Matching keeps the records that belong to parentID.
func Matching(records []RawRelated, parentID string) []RawRelated {
	return ectolinq.Filter(records, func(record RawRelated) bool {
		return BelongsTo(record, parentID)
	})
}

func text(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
