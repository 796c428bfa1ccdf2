package models

import "time"

// QuoteFriend is the embedded reference to a friend linked to a quote.
type QuoteFriend struct {
	FriendID  string `json:"friendId" db:"friend_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}

type Quote struct {
	ID        string        `json:"id"`
	Quote     string        `json:"quote"`
	Author    string        `json:"author"`
	Seeded    bool          `json:"seeded"`
	FriendIDs []string      `json:"friendIds"`
	Friends   []QuoteFriend `json:"friends"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type QuoteRequest struct {
	Quote     string   `json:"quote" validate:"required,max=1000"`
	Author    string   `json:"author" validate:"required,max=200"`
	FriendIDs []string `json:"friendIds" validate:"dive,uuid"`
	Seeded    bool     `json:"seeded"`
}
