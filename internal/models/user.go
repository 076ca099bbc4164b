package models

import "time"

// Subscription tiers a user account can be on.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// User represents a user account in the system.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Password          string    `json:"-"` // bcrypt hash, never expose this to the client
	Subscription      string    `json:"subscription"`
	AvatarURL         string    `json:"avatarURL,omitempty"`
	Token             string    `json:"-"` // current session token, empty when logged out
	Verify            bool      `json:"verify"`
	VerificationToken string    `json:"-"` // empty once the account is verified
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PublicUser is the client-facing shape of a user account.
type PublicUser struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// Public strips a user down to the fields the API returns.
func (u User) Public() PublicUser {
	return PublicUser{Email: u.Email, Subscription: u.Subscription}
}
