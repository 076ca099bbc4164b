package models

import "time"

// Contact represents a single phone book entry owned by a user.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactOwner is the owner projection embedded in contact listings.
type ContactOwner struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// ContactListItem is the listing shape of a contact: timestamps are
// stripped and the owner is populated with email and subscription.
type ContactListItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone"`
	Favorite bool         `json:"favorite"`
	Owner    ContactOwner `json:"owner"`
}
