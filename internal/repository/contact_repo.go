package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/utils"
)

// ContactRepository handles data access for delivery addresses.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ListByAccount returns all contacts owned by an account.
func (r *ContactRepository) ListByAccount(ctx context.Context, accountID int) ([]models.Contact, error) {
	const q = `SELECT * FROM contacts WHERE account_id = $1 ORDER BY favorite DESC, id`

	var contacts []models.Contact
	if err := r.db.SelectContext(ctx, &contacts, q, accountID); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetByID returns a single contact by id.
func (r *ContactRepository) GetByID(ctx context.Context, id int) (*models.Contact, error) {
	const q = `SELECT * FROM contacts WHERE id = $1 LIMIT 1`

	var c models.Contact
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CountByAccount returns the number of contacts an account holds.
func (r *ContactRepository) CountByAccount(ctx context.Context, accountID int) (int, error) {
	const q = `SELECT COUNT(1) FROM contacts WHERE account_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, q, accountID); err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new contact.
func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	const q = `
        INSERT INTO contacts (account_id, city, street, house, structure, building, apartment, favorite)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, q,
		c.AccountID, c.City, c.Street, c.House, c.Structure, c.Building, c.Apartment, c.Favorite,
	).Scan(&c.ID, &c.CreatedAt)
}

// Update updates contact fields.
func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) error {
	const q = `
        UPDATE contacts
        SET city = $2, street = $3, house = $4, structure = $5, building = $6, apartment = $7
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.City, c.Street, c.House, c.Structure, c.Building, c.Apartment)
	return err
}

// Delete removes a contact.
func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM contacts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// SetFavorite marks one contact as favorite and clears the flag on every
// other contact of the same account. Both updates run in one transaction so
// the at-most-one-favorite rule holds at every observation point.
func (r *ContactRepository) SetFavorite(ctx context.Context, accountID, contactID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE contacts SET favorite = false WHERE account_id = $1 AND id != $2`,
		accountID, contactID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE contacts SET favorite = true WHERE account_id = $1 AND id = $2`,
		accountID, contactID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrContactNotFound
	}

	return tx.Commit()
}
