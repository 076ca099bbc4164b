package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/olebek/contacts-be/internal/api/respond"
	"github.com/olebek/contacts-be/internal/auth"
	"github.com/olebek/contacts-be/internal/avatar"
	"github.com/olebek/contacts-be/internal/email"
	"github.com/olebek/contacts-be/internal/models"
	"github.com/olebek/contacts-be/internal/services"
	"github.com/olebek/contacts-be/internal/upload"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users   services.UserServiceProvider
	tokens  *auth.TokenManager
	mailer  email.Sender
	avatars *avatar.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, tokens *auth.TokenManager, mailer email.Sender, avatars *avatar.Store) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, mailer: mailer, avatars: avatars}
}

// decodeBody decodes a JSON request body, treating an absent body as a
// validation failure.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("missing request body")
		}
		return errors.New("invalid request body")
	}
	return nil
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.users.GetUserByEmail(payload.Email); err == nil {
		respond.Error(w, http.StatusConflict, "Email already in use")
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to check existing email")
		respond.InternalError(w)
		return
	}

	user, err := h.users.CreateUser(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailInUse) {
			respond.Error(w, http.StatusConflict, "Email already in use")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respond.InternalError(w)
		return
	}

	// Verification mail is best effort; the account exists either way.
	if err := h.mailer.SendVerification(user.Email, user.VerificationToken); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send verification email")
	}

	respond.JSON(w, http.StatusCreated, map[string]interface{}{"user": user.Public()})
}

// Verify handles the emailed verification link.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "verificationToken")

	user, err := h.users.GetUserByVerificationToken(token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to look up verification token")
		respond.InternalError(w)
		return
	}

	if err := h.users.VerifyUser(user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to verify user")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Verification successful"})
}

// ResendVerify re-sends the verification link for an unverified account.
func (h *UserHandler) ResendVerify(w http.ResponseWriter, r *http.Request) {
	var payload models.EmailPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetUserByEmail(payload.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to look up user")
		respond.InternalError(w)
		return
	}

	if user.Verify {
		respond.Error(w, http.StatusBadRequest, "Verification has already been passed")
		return
	}

	if err := h.mailer.SendVerification(user.Email, user.VerificationToken); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to re-send verification email")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Verification email sent"})
}

// Login handles user authentication and session token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respond.Error(w, http.StatusUnauthorized, "Email or password invalid")
		case errors.Is(err, models.ErrNotVerified):
			respond.Error(w, http.StatusUnauthorized, "Email not verified")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
			respond.InternalError(w)
		}
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		respond.InternalError(w)
		return
	}

	if err := h.users.SetToken(user.ID, token); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store session token")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// Current returns the authenticated user. The middleware already loaded
// the record, so no further persistence access happens here.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	respond.JSON(w, http.StatusOK, user.Public())
}

// Logout clears the stored session token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.users.SetToken(user.ID, ""); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to clear session token")
		respond.InternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateSubscription changes the authenticated user's subscription
// tier.
func (h *UserHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload models.SubscriptionPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.users.UpdateSubscription(user.ID, payload.Subscription)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to update subscription")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Success",
		"user":    updated.Public(),
	})
}

// UpdateAvatar processes an uploaded avatar image and stores its public
// URL on the user record.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	file, ok := upload.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Avatar file is required")
		return
	}

	avatarURL, err := h.avatars.Process(file.Path, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to process avatar upload")
		respond.InternalError(w)
		return
	}

	if _, err := h.users.UpdateAvatar(user.ID, avatarURL); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store avatar URL")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"avatarURL": avatarURL})
}
