// handlers/user_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sshinde/billsplit-backend/middleware"
	"github.com/sshinde/billsplit-backend/models"
	"github.com/sshinde/billsplit-backend/services"
	"github.com/sshinde/billsplit-backend/utils"
)

// UserHandler exposes the account endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var request models.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	if err := h.users.Register(&request); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Registration successful, please verify your email"})
}

// VerifyEmail handles GET /api/user/verify?token=...
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.HandleError(c, utils.NewValidationError("Token is required"))
		return
	}

	if err := h.users.VerifyEmail(token); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Email verified successfully"})
}

// Login handles POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	response, err := h.users.Login(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, response)
}

// UpdateProfile handles PUT /api/user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var request models.UserUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("Invalid request"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.users.UpdateUser(actor, &request); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Profile updated successfully"})
}

// Deactivate handles DELETE /api/user
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if err := h.users.DeactivateUser(actor); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Account deactivated"})
}
