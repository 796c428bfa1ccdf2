package models

import "time"

var (
	PetKinds = []string{"dog", "cat", "rabbit", "fish", "bird"}
	PetMoods = []string{"happy", "hungry", "lazy", "sulky", "busy", "sleepy"}
)

type Pet struct {
	ID        string    `json:"id"`
	FriendID  string    `json:"friendId"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Mood      string    `json:"mood"`
	Seeded    bool      `json:"seeded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PetRequest struct {
	FriendID string `json:"friendId" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,max=100"`
	Kind     string `json:"kind" validate:"required,oneof=dog cat rabbit fish bird"`
	Mood     string `json:"mood" validate:"required,oneof=happy hungry lazy sulky busy sleepy"`
	Seeded   bool   `json:"seeded"`
}
