package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskly-backend/internal/auth/domain"
	"taskly-backend/internal/auth/dto"
	"taskly-backend/internal/auth/usecase"
)

// AuthHandler serves the auth and user-administration routes.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register creates a new account.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.authUsecase.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  userID,
	})
}

// Login exchanges an identity-provider ID token for a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No ID token provided"})
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout destroys the current session.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := SessionFromContext(c)
	if err := h.authUsecase.Logout(c.Request.Context(), session.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// UploadProfilePicture replaces the caller's profile picture.
// POST /api/auth/profile-picture
func (h *AuthHandler) UploadProfilePicture(c *gin.Context) {
	session := SessionFromContext(c)

	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	imageURL, err := h.authUsecase.UploadProfilePicture(c.Request.Context(), session.UserID, fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

// ChangePassword updates the caller's password at the identity provider.
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session := SessionFromContext(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteAccount removes the caller's account and everything it owns.
// POST /api/auth/delete-account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	session := SessionFromContext(c)

	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.DeleteAccount(c.Request.Context(), session, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// GetUsers lists every user document.
// GET /api/auth/users (admin)
func (h *AuthHandler) GetUsers(c *gin.Context) {
	users, err := h.authUsecase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser writes the legacy boolean admin flag on a user document.
// PUT /api/auth/users/:id (admin)
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_admin field is required"})
		return
	}

	user, err := h.authUsecase.SetLegacyAdminFlag(c.Request.Context(), c.Param("id"), *req.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser cascades deletion of another user's account.
// DELETE /api/auth/users/:id (admin)
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	session := SessionFromContext(c)

	if err := h.authUsecase.DeleteUser(c.Request.Context(), session.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UpdateUserRole grants or revokes admin privileges via Admin records.
// PUT /api/auth/users/:id/role (admin)
func (h *AuthHandler) UpdateUserRole(c *gin.Context) {
	session := SessionFromContext(c)

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_admin field is required"})
		return
	}

	if err := h.authUsecase.UpdateUserRole(c.Request.Context(), session.UserID, c.Param("id"), *req.IsAdmin); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
