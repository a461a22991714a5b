package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/repository"
	"reviseai-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	study *service.StudyService
}

func NewSessionHandler(study *service.StudyService) *SessionHandler {
	return &SessionHandler{study: study}
}

// SaveSession persists a completed quiz run. Every card must carry a user
// answer; the quota was already consumed at generation time, so saving the
// run never re-checks it.
func (h *SessionHandler) SaveSession(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Flashcards) == 0 {
		dto.JsonError(c, http.StatusBadRequest, "No flashcards to save")
		return
	}

	var unanswered []int
	for i, card := range req.Flashcards {
		if card.UserAnswer == nil {
			unanswered = append(unanswered, i)
		}
	}
	if len(unanswered) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":     "error",
			"message":    fmt.Sprintf("Please answer all questions first. Unanswered: %d", len(unanswered)),
			"unanswered": unanswered,
		})
		return
	}

	startedAt, err := time.Parse(time.RFC3339, req.SessionStartTime)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid timestamp format")
		return
	}
	endedAt, err := time.Parse(time.RFC3339, req.SessionEndTime)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid timestamp format")
		return
	}

	inputs := make([]service.CardInput, 0, len(req.Flashcards))
	for _, card := range req.Flashcards {
		inputs = append(inputs, service.CardInput{
			Question:      card.Question,
			Options:       card.Options,
			CorrectAnswer: card.CorrectAnswer,
			UserAnswer:    card.UserAnswer,
			QuestionType:  card.QuestionType,
			Difficulty:    card.Difficulty,
		})
	}

	// Duration arrives in milliseconds, stored as seconds.
	sessionID, err := h.study.SaveSession(c.Request.Context(), userID, req.Notes, startedAt, endedAt, req.SessionDuration/1000, inputs)
	if err != nil {
		log.Printf("Failed to save session for user %s: %v", userID, err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to save flashcards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Flashcards saved successfully",
		"session_id": sessionID,
	})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID := c.GetString("user_id")

	summaries, err := h.study.ListSessions(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to list sessions for user %s: %v", userID, err)
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"sessions": toSummaryResponses(summaries),
	})
}

func (h *SessionHandler) GetCards(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	cards, err := h.study.GetCards(c.Request.Context(), userID, sessionID)
	if err != nil {
		log.Printf("Failed to get cards for session %s: %v", sessionID, err)
		dto.JsonError(c, http.StatusNotFound, "Session not found")
		return
	}

	resp := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		cr := dto.CardResponse{
			ID:            card.ID,
			SessionID:     card.SessionID,
			Question:      card.Question,
			Options:       card.Options,
			CorrectAnswer: card.CorrectAnswer,
			QuestionType:  card.QuestionType,
			Difficulty:    card.Difficulty,
			CreatedAt:     card.CreatedAt.Format(time.RFC3339),
		}
		if card.UserAnswer.Valid {
			answer := int(card.UserAnswer.Int64)
			cr.UserAnswer = &answer
		}
		if card.IsCorrect.Valid {
			correct := card.IsCorrect.Bool
			cr.IsCorrect = &correct
		}
		resp = append(resp, cr)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"flashcards": resp,
	})
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	deleted, err := h.study.DeleteSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		log.Printf("Failed to delete session %s: %v", sessionID, err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if !deleted {
		dto.JsonError(c, http.StatusNotFound, "Session not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Session deleted successfully",
	})
}

func toSummaryResponses(summaries []*repository.SessionSummary) []dto.SessionSummaryResponse {
	resp := make([]dto.SessionSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, dto.SessionSummaryResponse{
			ID:              s.ID,
			Title:           s.Title,
			CreatedAt:       s.CreatedAt.Format(time.RFC3339),
			UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
			TotalQuestions:  s.TotalQuestions,
			CorrectAnswers:  s.CorrectAnswers,
			ScorePercentage: s.ScorePercentage,
			QuestionTypes:   s.QuestionTypes,
			SessionDuration: s.DurationSeconds,
		})
	}
	return resp
}
