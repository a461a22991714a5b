package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/repository"
	"reviseai-backend/internal/service"
	"reviseai-backend/pkg/jwt"
	"reviseai-backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userRepo  *repository.UserRepository
	study     *service.StudyService
	jwtSecret string
}

func NewAuthHandler(db *sql.DB, study *service.StudyService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepo:  repository.NewUserRepository(db),
		study:     study,
		jwtSecret: jwtSecret,
	}
}

// Login is email-only: a valid address gets an account on first use and a
// signed token either way.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := validator.NormalizeEmail(req.Email)
	if err := validator.ValidateEmail(email); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	user, err := h.userRepo.GetOrCreateUser(c.Request.Context(), email)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, h.jwtSecret)
	if err != nil {
		log.Printf("Token generation failed for %s: %v", email, err)
		dto.JsonError(c, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Status:      "success",
		Message:     "Login successful",
		AccessToken: token,
		User: dto.UserInfo{
			ID:    user.ID,
			Email: user.Email,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"authenticated": true,
		"user": dto.UserInfo{
			ID:    c.GetString("user_id"),
			Email: c.GetString("email"),
		},
	})
}

// Logout evicts the user's cached summaries. Tokens are stateless, so the
// client discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	h.study.InvalidateCache(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
