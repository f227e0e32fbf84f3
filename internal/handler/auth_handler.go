package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/retailnet/retail_api/internal/middleware"
	"github.com/retailnet/retail_api/internal/service"
	"github.com/retailnet/retail_api/internal/utils"
)

// AuthHandler handles registration, activation, session and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /v1/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	account, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 201, "Account registered, confirmation email sent", account)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendActivation handles POST /v1/user/register/resend-activation
func (h *AuthHandler) ResendActivation(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.authService.ResendActivation(c.Request.Context(), req.Email); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Activation email sent", nil)
}

type activationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Key   string `json:"key" binding:"required"`
}

// Activate handles POST /v1/user/register/activate
func (h *AuthHandler) Activate(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.authService.Activate(c.Request.Context(), req.Email, req.Key); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Account activated", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Error(c, 401, utils.APICode(err), err.Error())
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}

// PasswordReset handles POST /v1/user/password-reset
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Password reset email sent", nil)
}

type passwordResetConfirmRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Key             string `json:"key" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// PasswordResetConfirm handles POST /v1/user/password-reset/confirm
func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Key, req.NewPassword)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Password changed", nil)
}

// GetProfile handles GET /v1/user/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	account := middleware.GetAccount(c)

	utils.Success(c, 200, "Profile retrieved", account)
}

// UpdateProfile handles PATCH /v1/user/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	account, err := h.authService.UpdateProfile(c.Request.Context(), c.GetInt("account_id"), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Profile updated", account)
}

// DeleteProfile handles DELETE /v1/user/profile
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	if err := h.authService.DeleteAccount(c.Request.Context(), c.GetInt("account_id")); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Account deleted", nil)
}
