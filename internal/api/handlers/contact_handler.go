package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/olebek/contacts-be/internal/api/respond"
	"github.com/olebek/contacts-be/internal/auth"
	"github.com/olebek/contacts-be/internal/models"
	"github.com/olebek/contacts-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ContactHandler handles HTTP requests for contact records. Every
// operation is scoped to the authenticated owner.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// List returns one page of the caller's contacts plus the total count
// matching the filter.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}

	var favorite *bool
	if raw := query.Get("favorite"); raw != "" {
		fav := raw == "true"
		favorite = &fav
	}

	contacts, total, err := h.service.ListContacts(user.ID, favorite, page, limit)
	if err != nil {
		log.Error().Err(err).Str("owner", user.ID).Msg("Failed to list contacts")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"result": contacts,
		"total":  total,
	})
}

// Get returns a single owned contact.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	id := chi.URLParam(r, "id")
	contact, err := h.service.GetContactByID(id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("contact_id", id).Msg("Failed to get contact")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}

// Create adds a new contact owned by the caller.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload models.CreateContactPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.service.CreateContact(models.Contact{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Favorite: payload.Favorite,
		Owner:    user.ID,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateContact) {
			respond.Error(w, http.StatusBadRequest, "Contact email or phone already in use")
			return
		}
		log.Error().Err(err).Str("owner", user.ID).Msg("Failed to create contact")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusCreated, contact)
}

// Update applies a partial update to an owned contact.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload models.UpdateContactPayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Empty() {
		respond.Error(w, http.StatusBadRequest, "Body must have at least one field")
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	contact, err := h.service.UpdateContact(id, user.ID, payload)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "Not found")
		case errors.Is(err, models.ErrDuplicateContact):
			respond.Error(w, http.StatusBadRequest, "Contact email or phone already in use")
		default:
			log.Error().Err(err).Str("contact_id", id).Msg("Failed to update contact")
			respond.InternalError(w)
		}
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}

// UpdateFavorite toggles the favorite flag on an owned contact.
func (h *ContactHandler) UpdateFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload models.FavoritePayload
	if err := decodeBody(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	contact, err := h.service.UpdateContactFavorite(id, user.ID, *payload.Favorite)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("contact_id", id).Msg("Failed to update favorite")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}

// Delete removes an owned contact and returns the deleted document.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	id := chi.URLParam(r, "id")
	contact, err := h.service.DeleteContact(id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("contact_id", id).Msg("Failed to delete contact")
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}
