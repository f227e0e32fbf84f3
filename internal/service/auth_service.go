package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// AuthService handles registration, activation, login, password reset and
// profile management.
type AuthService struct {
	accounts storage.AccountStore
	shops    storage.ShopStore
	keys     KeyStore
	notifier Notifier
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts storage.AccountStore, shops storage.ShopStore, keys KeyStore, notifier Notifier) *AuthService {
	return &AuthService{accounts: accounts, shops: shops, keys: keys, notifier: notifier}
}

// RegisterRequest is the registration input.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=8,max=64"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Role      string `json:"role" binding:"required,oneof=buyer supplier"`
}

// Register creates an inactive account, auto-creates the shop for suppliers
// and sends an activation key to the account email.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Wrap(err, "failed to hash password")
	}

	account := &models.Account{
		Email:        req.Email,
		Phone:        req.Phone,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		Role:         models.AccountRole(req.Role),
		PasswordHash: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if account.Role == models.RoleSupplier {
		shop := &models.Shop{AccountID: account.ID, Name: account.Company}
		if err := s.shops.Create(ctx, shop); err != nil {
			return nil, err
		}
	}

	s.sendActivation(ctx, account.Email)
	return account, nil
}

// ResendActivation issues a fresh activation key for an existing account.
func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsActive {
		return utils.Validation("ALREADY_ACTIVE", "Account is already activated")
	}
	s.sendActivation(ctx, account.Email)
	return nil
}

// Activate consumes an activation key and flips the account active.
func (s *AuthService) Activate(ctx context.Context, email, key string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.keys.ValidateAndConsume(ctx, key, account.Email)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrInvalidKey
	}

	return s.accounts.Activate(ctx, account.ID)
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", utils.ErrInvalidCredential
	}
	if !account.IsActive {
		return "", utils.ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", utils.ErrInvalidCredential
	}

	log.Info().Str("email", email).Msg("login successful")
	return utils.GenerateJWT(account.ID, account.Email)
}

// RequestPasswordReset issues a reset key for an existing account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	key, err := s.keys.Issue(ctx, account.Email)
	if err != nil {
		return err
	}
	notify(s.notifier, account.Email, subjectPasswordRst, passwordResetBody(key))
	return nil
}

// ConfirmPasswordReset consumes a reset key and replaces the credential.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, key, newPassword string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.keys.ValidateAndConsume(ctx, key, account.Email)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrInvalidKey
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.Wrap(err, "failed to hash password")
	}
	return s.accounts.SetPassword(ctx, account.ID, string(hash))
}

// Profile returns the account of the current principal.
func (s *AuthService) Profile(ctx context.Context, accountID int) (*models.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// UpdateProfileRequest holds partial profile updates.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Company   *string `json:"company"`
}

// UpdateProfile applies partial updates. Changing the email deactivates the
// account and sends a fresh activation key to the new address; changing the
// company renames a supplier's shop alongside.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID int, req *UpdateProfileRequest) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	emailChanged := false
	if req.Email != nil && *req.Email != account.Email {
		account.Email = *req.Email
		account.IsActive = false
		emailChanged = true
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Company != nil && *req.Company != account.Company {
		account.Company = *req.Company
		if account.Role == models.RoleSupplier {
			if err := s.shops.UpdateName(ctx, account.ID, account.Company); err != nil {
				return nil, err
			}
		}
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}
	if emailChanged {
		s.sendActivation(ctx, account.Email)
	}
	return account, nil
}

// DeleteAccount removes the account; owned contacts and orders cascade.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID int) error {
	return s.accounts.Delete(ctx, accountID)
}

func (s *AuthService) sendActivation(ctx context.Context, email string) {
	key, err := s.keys.Issue(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to issue activation key")
		return
	}
	notify(s.notifier, email, subjectActivation, activationBody(key))
}
