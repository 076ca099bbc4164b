package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessage turns the first validator failure into a short,
// client-facing message.
func validationMessage(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// RegisterPayload is the request body for user registration.
type RegisterPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (p RegisterPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationMessage(err)
	}
	return nil
}

// LoginPayload is the request body for sign-in.
type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (p LoginPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationMessage(err)
	}
	return nil
}

// EmailPayload is the request body for re-sending the verification mail.
type EmailPayload struct {
	Email string `json:"email" validate:"required"`
}

func (p EmailPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationMessage(err)
	}
	return nil
}

// SubscriptionPayload is the request body for a subscription update.
type SubscriptionPayload struct {
	Subscription string `json:"subscription" validate:"required,oneof=starter pro business"`
}

func (p SubscriptionPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationMessage(err)
	}
	return nil
}

// CreateContactPayload is the request body for contact creation.
type CreateContactPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Favorite bool   `json:"favorite"`
}

func (p CreateContactPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return validationMessage(err)
	}
	return nil
}

// UpdateContactPayload is the request body for a partial contact update.
// Every field is optional but at least one must be present.
type UpdateContactPayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

// Empty reports whether the payload carries no fields at all.
func (p UpdateContactPayload) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Favorite == nil
}

func (p UpdateContactPayload) Validate() error {
	if p.Empty() {
		return fmt.Errorf("body must have at least one field")
	}
	for field, v := range map[string]*string{"name": p.Name, "email": p.Email, "phone": p.Phone} {
		if v != nil && *v == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
	}
	return nil
}

// FavoritePayload is the request body for the favorite toggle.
type FavoritePayload struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

func (p FavoritePayload) Validate() error {
	if p.Favorite == nil {
		return fmt.Errorf("favorite is required")
	}
	return nil
}
