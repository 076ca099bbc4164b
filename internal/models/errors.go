package models

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP statuses; anything else becomes a generic 500.
var (
	// ErrNotFound is returned when a record is absent or not owned by
	// the caller.
	ErrNotFound = errors.New("not found")

	// ErrEmailInUse is returned when registering with an email that
	// already has an account.
	ErrEmailInUse = errors.New("email already in use")

	// ErrDuplicateContact is returned when a contact email or phone
	// collides with an existing contact.
	ErrDuplicateContact = errors.New("contact email or phone already in use")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so responses give no enumeration signal.
	ErrInvalidCredentials = errors.New("email or password invalid")

	// ErrNotVerified is returned when signing in before the email
	// verification link was followed.
	ErrNotVerified = errors.New("email not verified")

	// ErrAlreadyVerified is returned when requesting a new verification
	// email for an account that is already verified.
	ErrAlreadyVerified = errors.New("verification has already been passed")
)
