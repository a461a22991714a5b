package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/quota"
	"reviseai-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userRepo *repository.UserRepository
	tracker  *quota.Tracker
}

func NewUserHandler(db *sql.DB, tracker *quota.Tracker) *UserHandler {
	return &UserHandler{
		userRepo: repository.NewUserRepository(db),
		tracker:  tracker,
	}
}

func (h *UserHandler) Allowance(c *gin.Context) {
	userID := c.GetString("user_id")

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"allowance": h.tracker.Check(c.Request.Context(), userID),
	})
}

func (h *UserHandler) TierInfo(c *gin.Context) {
	userID := c.GetString("user_id")

	allowance := h.tracker.Check(c.Request.Context(), userID)

	totalSessions := 0
	if user, err := h.userRepo.GetUserByID(c.Request.Context(), userID); err != nil {
		log.Printf("Failed to load user %s for tier info: %v", userID, err)
	} else {
		totalSessions = user.TotalSessionsUsed
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"tier_info": dto.TierInfoResponse{
			Tier:              "free",
			RemainingSessions: allowance.Remaining,
			SessionLimit:      allowance.Limit,
			SessionsUsedToday: allowance.SessionsUsedToday,
			ResetIn:           allowance.ResetIn,
			BillingPeriod:     allowance.Period,
			TotalSessionsUsed: totalSessions,
		},
	})
}

func (h *UserHandler) SessionCount(c *gin.Context) {
	userID := c.GetString("user_id")

	count := 0
	if user, err := h.userRepo.GetUserByID(c.Request.Context(), userID); err != nil {
		log.Printf("Failed to load session count for user %s: %v", userID, err)
	} else {
		count = user.SessionsUsedToday
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"session_count": count,
	})
}
