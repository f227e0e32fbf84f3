package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/utils"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// AccountRepository handles data access for accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. Duplicate email or phone maps to a conflict error.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	const q = `
        INSERT INTO accounts (email, phone, first_name, last_name, company, role, is_active, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		a.Email,
		a.Phone,
		a.FirstName,
		a.LastName,
		a.Company,
		a.Role,
		a.IsActive,
		a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateAccount
	}
	return err
}

// GetByID returns a single account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	const q = `SELECT * FROM accounts WHERE id = $1 LIMIT 1`

	var a models.Account
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByEmail returns a single account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	const q = `SELECT * FROM accounts WHERE email = $1 LIMIT 1`

	var a models.Account
	if err := r.db.GetContext(ctx, &a, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Activate sets the activation flag.
func (r *AccountRepository) Activate(ctx context.Context, id int) error {
	const q = `UPDATE accounts SET is_active = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// SetPassword replaces the stored credential hash.
func (r *AccountRepository) SetPassword(ctx context.Context, id int, passwordHash string) error {
	const q = `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, passwordHash)
	return err
}

// UpdateProfile updates mutable profile fields, including the activation flag
// so an email change can force re-activation.
func (r *AccountRepository) UpdateProfile(ctx context.Context, a *models.Account) error {
	const q = `
        UPDATE accounts
        SET email = $2, phone = $3, first_name = $4, last_name = $5, company = $6,
            is_active = $7, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		a.ID, a.Email, a.Phone, a.FirstName, a.LastName, a.Company, a.IsActive,
	).Scan(&a.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateAccount
	}
	if err == sql.ErrNoRows {
		return utils.ErrAccountNotFound
	}
	return err
}

// Delete removes an account. Contacts and orders cascade at the schema level.
func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
