package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/storage"
	"github.com/retailnet/retail_api/internal/utils"
)

// JWTMiddleware authenticates session tokens and resolves the current account.
type JWTMiddleware struct {
	accounts storage.AccountStore
}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware(accounts storage.AccountStore) *JWTMiddleware {
	return &JWTMiddleware{accounts: accounts}
}

// Handle returns a Gin middleware that enforces an authenticated session.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		account, err := m.accounts.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil || !account.IsActive {
			utils.Error(c, 401, "INVALID_TOKEN", "Account missing or inactive")
			c.Abort()
			return
		}

		c.Set("account", account)
		c.Set("account_id", account.ID)
		c.Next()
	}
}

// RequireSupplier restricts a route to supplier accounts. Must run after Handle.
func RequireSupplier() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := GetAccount(c)
		if account == nil || account.Role != models.RoleSupplier {
			utils.Error(c, 403, "FORBIDDEN", "Supplier account required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAccount returns the authenticated account from context.
func GetAccount(c *gin.Context) *models.Account {
	v, ok := c.Get("account")
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}
