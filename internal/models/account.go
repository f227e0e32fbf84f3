package models

import "time"

// AccountRole distinguishes buyers from suppliers.
type AccountRole string

const (
	RoleBuyer    AccountRole = "buyer"
	RoleSupplier AccountRole = "supplier"
)

// Account represents a registered user of the platform.
// The password hash is never serialized in responses.
type Account struct {
	ID           int         `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	Phone        string      `db:"phone" json:"phone"`
	FirstName    string      `db:"first_name" json:"firstName"`
	LastName     string      `db:"last_name" json:"lastName"`
	Company      string      `db:"company" json:"company,omitempty"`
	Role         AccountRole `db:"role" json:"role"`
	IsActive     bool        `db:"is_active" json:"isActive"`
	PasswordHash string      `db:"password_hash" json:"-"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"-"`
}

// Contact is a delivery address owned by an account.
// An account holds at most six contacts and at most one favorite.
type Contact struct {
	ID        int       `db:"id" json:"id"`
	AccountID int       `db:"account_id" json:"-"`
	City      string    `db:"city" json:"city"`
	Street    string    `db:"street" json:"street"`
	House     string    `db:"house" json:"house"`
	Structure *string   `db:"structure" json:"structure,omitempty"`
	Building  *string   `db:"building" json:"building,omitempty"`
	Apartment *string   `db:"apartment" json:"apartment,omitempty"`
	Favorite  bool      `db:"favorite" json:"favorite"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MaxContactsPerAccount caps the number of delivery addresses per account.
const MaxContactsPerAccount = 6
