package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/olebek/contacts-be/internal/auth"
	"github.com/olebek/contacts-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContactService implements services.ContactServiceProvider with
// overridable behavior per test.
type fakeContactService struct {
	list           func(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error)
	getByID        func(id, owner string) (models.Contact, error)
	create         func(contact models.Contact) (models.Contact, error)
	update         func(id, owner string, patch models.UpdateContactPayload) (models.Contact, error)
	updateFavorite func(id, owner string, favorite bool) (models.Contact, error)
	delete         func(id, owner string) (models.Contact, error)
}

func (f *fakeContactService) ListContacts(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error) {
	if f.list != nil {
		return f.list(owner, favorite, page, limit)
	}
	return nil, 0, nil
}

func (f *fakeContactService) GetContactByID(id, owner string) (models.Contact, error) {
	if f.getByID != nil {
		return f.getByID(id, owner)
	}
	return models.Contact{}, models.ErrNotFound
}

func (f *fakeContactService) CreateContact(contact models.Contact) (models.Contact, error) {
	if f.create != nil {
		return f.create(contact)
	}
	return models.Contact{}, models.ErrNotFound
}

func (f *fakeContactService) UpdateContact(id, owner string, patch models.UpdateContactPayload) (models.Contact, error) {
	if f.update != nil {
		return f.update(id, owner, patch)
	}
	return models.Contact{}, models.ErrNotFound
}

func (f *fakeContactService) UpdateContactFavorite(id, owner string, favorite bool) (models.Contact, error) {
	if f.updateFavorite != nil {
		return f.updateFavorite(id, owner, favorite)
	}
	return models.Contact{}, models.ErrNotFound
}

func (f *fakeContactService) DeleteContact(id, owner string) (models.Contact, error) {
	if f.delete != nil {
		return f.delete(id, owner)
	}
	return models.Contact{}, models.ErrNotFound
}

// contactsRouter mounts the contact routes behind a middleware that
// injects user, mirroring the production router.
func contactsRouter(h *ContactHandler, user models.User) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), user)))
		})
	})
	r.Get("/api/contacts", h.List)
	r.Post("/api/contacts", h.Create)
	r.Get("/api/contacts/{id}", h.Get)
	r.Put("/api/contacts/{id}", h.Update)
	r.Delete("/api/contacts/{id}", h.Delete)
	r.Patch("/api/contacts/{id}/favorite", h.UpdateFavorite)
	return r
}

func TestList_PassesFilterAndPagination(t *testing.T) {
	var gotOwner string
	var gotFavorite *bool
	var gotPage, gotLimit int
	svc := &fakeContactService{
		list: func(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error) {
			gotOwner, gotFavorite, gotPage, gotLimit = owner, favorite, page, limit
			return []models.ContactListItem{
				{ID: "c1", Name: "Alice", Favorite: true, Owner: models.ContactOwner{Email: "a@x.com", Subscription: "starter"}},
			}, 3, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts?favorite=true&page=2&limit=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotOwner)
	require.NotNil(t, gotFavorite)
	assert.True(t, *gotFavorite)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotLimit)

	var body struct {
		Result []models.ContactListItem `json:"result"`
		Total  int                      `json:"total"`
	}
	decodeJSON(t, w, &body)
	assert.Len(t, body.Result, 1)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, "a@x.com", body.Result[0].Owner.Email)
}

func TestList_DefaultsWithoutQuery(t *testing.T) {
	svc := &fakeContactService{
		list: func(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error) {
			assert.Nil(t, favorite)
			assert.Equal(t, 1, page)
			assert.Equal(t, 20, limit)
			return []models.ContactListItem{}, 0, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGet_NotOwned(t *testing.T) {
	svc := &fakeContactService{
		getByID: func(id, owner string) (models.Contact, error) {
			assert.Equal(t, "u1", owner)
			return models.Contact{}, models.ErrNotFound
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts/c9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_InjectsOwner(t *testing.T) {
	svc := &fakeContactService{
		create: func(contact models.Contact) (models.Contact, error) {
			assert.Equal(t, "u1", contact.Owner)
			contact.ID = "c1"
			return contact, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contacts",
		strings.NewReader(`{"name":"Alice","email":"alice@x.com","phone":"123"}`)))

	assert.Equal(t, http.StatusCreated, w.Code)
	var contact models.Contact
	decodeJSON(t, w, &contact)
	assert.Equal(t, "c1", contact.ID)
	assert.Equal(t, "u1", contact.Owner)
}

func TestCreate_Validation(t *testing.T) {
	router := contactsRouter(NewContactHandler(&fakeContactService{}), models.User{ID: "u1"})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing phone", `{"name":"Alice","email":"alice@x.com"}`},
		{"missing name", `{"email":"alice@x.com","phone":"123"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc := &fakeContactService{
		create: func(contact models.Contact) (models.Contact, error) {
			return models.Contact{}, models.ErrDuplicateContact
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contacts",
		strings.NewReader(`{"name":"Alice","email":"alice@x.com","phone":"123"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdate_EmptyBodyShortCircuits(t *testing.T) {
	called := false
	svc := &fakeContactService{
		update: func(id, owner string, patch models.UpdateContactPayload) (models.Contact, error) {
			called = true
			return models.Contact{}, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	for _, body := range []string{"", "{}"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/contacts/c1", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.False(t, called, "empty body must not reach persistence")
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := &fakeContactService{
		update: func(id, owner string, patch models.UpdateContactPayload) (models.Contact, error) {
			require.NotNil(t, patch.Name)
			assert.Nil(t, patch.Email)
			return models.Contact{ID: id, Name: *patch.Name, Owner: owner}, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/contacts/c1",
		strings.NewReader(`{"name":"Updated"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	var contact models.Contact
	decodeJSON(t, w, &contact)
	assert.Equal(t, "Updated", contact.Name)
}

func TestUpdateFavorite(t *testing.T) {
	svc := &fakeContactService{
		updateFavorite: func(id, owner string, favorite bool) (models.Contact, error) {
			return models.Contact{ID: id, Owner: owner, Favorite: favorite}, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	// Missing favorite field.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/contacts/c1/favorite",
		strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// false is a legitimate value, not a missing field.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/contacts/c1/favorite",
		strings.NewReader(`{"favorite":false}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	var contact models.Contact
	decodeJSON(t, w, &contact)
	assert.False(t, contact.Favorite)
}

func TestDelete_ReturnsDocument(t *testing.T) {
	svc := &fakeContactService{
		delete: func(id, owner string) (models.Contact, error) {
			return models.Contact{ID: id, Name: "Alice", Owner: owner}, nil
		},
	}
	router := contactsRouter(NewContactHandler(svc), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/contacts/c1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var contact models.Contact
	decodeJSON(t, w, &contact)
	assert.Equal(t, "c1", contact.ID)
}

func TestDelete_NotFound(t *testing.T) {
	router := contactsRouter(NewContactHandler(&fakeContactService{}), models.User{ID: "u1"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/contacts/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
