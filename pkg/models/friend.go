package models

import "time"

// DateLayout is the wire format of a friend's birthday.
const DateLayout = "2006-01-02"

type Address struct {
	ID            string `json:"id"`
	StreetAddress string `json:"streetAddress"`
	ZipCode       string `json:"zipCode"`
	City          string `json:"city"`
	Country       string `json:"country"`
}

// Friend is the parent entity. Pets and Quotes are only populated by the
// single-item lookup.
type Friend struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Birthday  *string   `json:"birthday,omitempty"`
	Seeded    bool      `json:"seeded"`
	Address   *Address  `json:"address,omitempty"`
	Pets      []Pet     `json:"pets,omitempty"`
	Quotes    []Quote   `json:"quotes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f Friend) FullName() string {
	switch {
	case f.FirstName == "":
		return f.LastName
	case f.LastName == "":
		return f.FirstName
	default:
		return f.FirstName + " " + f.LastName
	}
}

type AddressRequest struct {
	StreetAddress string `json:"streetAddress" validate:"required,max=200"`
	ZipCode       string `json:"zipCode" validate:"required,max=20"`
	City          string `json:"city" validate:"required,max=100"`
	Country       string `json:"country" validate:"required,max=100"`
}

type FriendRequest struct {
	FirstName string          `json:"firstName" validate:"required,max=100"`
	LastName  string          `json:"lastName" validate:"required,max=100"`
	Email     string          `json:"email" validate:"required,email,max=200"`
	Birthday  *string         `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Seeded    bool            `json:"seeded"`
	Address   *AddressRequest `json:"address,omitempty" validate:"omitempty"`
	// RemoveAddress deletes the stored address when Address is nil
	RemoveAddress bool `json:"removeAddress,omitempty"`
}
