package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/olebek/contacts-be/internal/models"
)

// ContactServiceProvider defines the interface for contact services.
// Every operation is scoped to the owning user.
type ContactServiceProvider interface {
	ListContacts(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error)
	GetContactByID(id, owner string) (models.Contact, error)
	CreateContact(contact models.Contact) (models.Contact, error)
	UpdateContact(id, owner string, patch models.UpdateContactPayload) (models.Contact, error)
	UpdateContactFavorite(id, owner string, favorite bool) (models.Contact, error)
	DeleteContact(id, owner string) (models.Contact, error)
}

// ContactService provides business logic for contact management.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

const contactColumns = "id, name, email, phone, favorite, owner, created_at, updated_at"

// scanContact is a helper to scan a contact from a row or rows object.
func scanContact(scanner interface{ Scan(...interface{}) error }) (models.Contact, error) {
	var c models.Contact
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// ListContacts returns one page of the owner's contacts together with
// the total count matching the filter, ignoring pagination. Listed
// contacts carry the owner's email and subscription.
func (s *ContactService) ListContacts(owner string, favorite *bool, page, limit int) ([]models.ContactListItem, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := "c.owner = ?"
	args := []interface{}{owner}
	if favorite != nil {
		where += " AND c.favorite = ?"
		args = append(args, *favorite)
	}

	query := `
		SELECT c.id, c.name, c.email, c.phone, c.favorite, u.email, u.subscription
		FROM contacts c
		JOIN users u ON u.id = c.owner
		WHERE ` + where + `
		ORDER BY c.created_at, c.id
		LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := []models.ContactListItem{}
	for rows.Next() {
		var item models.ContactListItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Email, &item.Phone, &item.Favorite,
			&item.Owner.Email, &item.Owner.Subscription,
		); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM contacts c WHERE " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// GetContactByID retrieves a single contact if it belongs to owner.
func (s *ContactService) GetContactByID(id, owner string) (models.Contact, error) {
	row := s.db.QueryRow(
		"SELECT "+contactColumns+" FROM contacts WHERE id = ? AND owner = ?", id, owner,
	)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, models.ErrNotFound
		}
		return models.Contact{}, err
	}
	return contact, nil
}

// CreateContact persists a new contact for its owner.
func (s *ContactService) CreateContact(contact models.Contact) (models.Contact, error) {
	contact.ID = uuid.New().String()

	_, err := s.db.Exec(
		"INSERT INTO contacts(id, name, email, phone, favorite, owner) VALUES(?, ?, ?, ?, ?, ?)",
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Favorite, contact.Owner,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Contact{}, models.ErrDuplicateContact
		}
		return models.Contact{}, err
	}
	return s.GetContactByID(contact.ID, contact.Owner)
}

// UpdateContact applies a partial update to an owned contact.
func (s *ContactService) UpdateContact(id, owner string, patch models.UpdateContactPayload) (models.Contact, error) {
	set := ""
	args := []interface{}{}
	appendSet := func(column string, value interface{}) {
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, value)
	}
	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.Email != nil {
		appendSet("email", *patch.Email)
	}
	if patch.Phone != nil {
		appendSet("phone", *patch.Phone)
	}
	if patch.Favorite != nil {
		appendSet("favorite", *patch.Favorite)
	}
	if set == "" {
		return s.GetContactByID(id, owner)
	}

	args = append(args, id, owner)
	res, err := s.db.Exec(
		"UPDATE contacts SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner = ?", args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Contact{}, models.ErrDuplicateContact
		}
		return models.Contact{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.Contact{}, err
	}
	return s.GetContactByID(id, owner)
}

// UpdateContactFavorite toggles the favorite flag on an owned contact.
func (s *ContactService) UpdateContactFavorite(id, owner string, favorite bool) (models.Contact, error) {
	res, err := s.db.Exec(
		"UPDATE contacts SET favorite = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner = ?",
		favorite, id, owner,
	)
	if err != nil {
		return models.Contact{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.Contact{}, err
	}
	return s.GetContactByID(id, owner)
}

// DeleteContact removes an owned contact and returns the deleted
// document.
func (s *ContactService) DeleteContact(id, owner string) (models.Contact, error) {
	contact, err := s.GetContactByID(id, owner)
	if err != nil {
		return models.Contact{}, err
	}
	if _, err := s.db.Exec("DELETE FROM contacts WHERE id = ? AND owner = ?", id, owner); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}
