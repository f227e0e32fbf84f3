package service

import (
	"context"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// ContactService manages delivery addresses.
type ContactService struct {
	contacts storage.ContactStore
}

// NewContactService constructs a ContactService.
func NewContactService(contacts storage.ContactStore) *ContactService {
	return &ContactService{contacts: contacts}
}

// List returns the account's contacts, favorite first.
func (s *ContactService) List(ctx context.Context, accountID int) ([]models.Contact, error) {
	return s.contacts.ListByAccount(ctx, accountID)
}

// ContactRequest is the create/update input for a contact.
type ContactRequest struct {
	City      string  `json:"city" binding:"required"`
	Street    string  `json:"street" binding:"required"`
	House     string  `json:"house" binding:"required"`
	Structure *string `json:"structure"`
	Building  *string `json:"building"`
	Apartment *string `json:"apartment"`
	Favorite  bool    `json:"favorite"`
}

// Create adds a contact, enforcing the per-account cap and the
// single-favorite rule.
func (s *ContactService) Create(ctx context.Context, accountID int, req *ContactRequest) (*models.Contact, error) {
	count, err := s.contacts.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxContactsPerAccount {
		return nil, utils.Validation("CONTACT_LIMIT", "Contact limit reached")
	}

	contact := &models.Contact{
		AccountID: accountID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	if req.Favorite {
		if err := s.contacts.SetFavorite(ctx, accountID, contact.ID); err != nil {
			return nil, err
		}
		contact.Favorite = true
	}
	return contact, nil
}

// Update modifies a contact owned by the account.
func (s *ContactService) Update(ctx context.Context, accountID, contactID int, req *ContactRequest) (*models.Contact, error) {
	contact, err := s.owned(ctx, accountID, contactID)
	if err != nil {
		return nil, err
	}

	contact.City = req.City
	contact.Street = req.Street
	contact.House = req.House
	contact.Structure = req.Structure
	contact.Building = req.Building
	contact.Apartment = req.Apartment
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	if req.Favorite && !contact.Favorite {
		if err := s.contacts.SetFavorite(ctx, accountID, contact.ID); err != nil {
			return nil, err
		}
		contact.Favorite = true
	}
	return contact, nil
}

// Delete removes a contact owned by the account.
func (s *ContactService) Delete(ctx context.Context, accountID, contactID int) error {
	if _, err := s.owned(ctx, accountID, contactID); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, contactID)
}

// owned loads a contact and checks ownership.
func (s *ContactService) owned(ctx context.Context, accountID, contactID int) (*models.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.AccountID != accountID {
		return nil, utils.ErrNotOwner
	}
	return contact, nil
}
