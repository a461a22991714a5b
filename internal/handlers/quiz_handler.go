package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/generator"
	"reviseai-backend/internal/quota"

	"github.com/gin-gonic/gin"
)

// aiErrorMessages is the fixed user-facing message table for generation
// failures. Codes never leak raw provider errors to the client.
var aiErrorMessages = map[generator.Code]string{
	generator.CodeNoAPIKey:         "AI service not configured. Please contact support.",
	generator.CodeQuotaExceeded:    "AI service quota exceeded. Please try again later.",
	generator.CodeAuthError:        "AI service authentication failed. Please contact support.",
	generator.CodeEmptyResponse:    "AI returned an empty response. Please try again.",
	generator.CodeInvalidResponse:  "AI returned an invalid response format. Please try again.",
	generator.CodeNoQuestions:      "AI didn't generate any questions. Please try again.",
	generator.CodeNoValidQuestions: "AI generated invalid questions. Please try again.",
	generator.CodeParseError:       "Failed to parse AI response. Please try again.",
	generator.CodeAPIError:         "AI service temporarily unavailable. Please try again in a moment.",
	generator.CodeProcessError:     "Error processing AI response. Please try again.",
}

type QuizHandler struct {
	generator *generator.Generator
	tracker   *quota.Tracker
}

func NewQuizHandler(gen *generator.Generator, tracker *quota.Tracker) *QuizHandler {
	return &QuizHandler{
		generator: gen,
		tracker:   tracker,
	}
}

// GenerateQuestions runs the quiz assembly pipeline for the authenticated
// user. Quota is consumed if and only if generation succeeded: input errors
// and AI failures leave the counter untouched.
func (h *QuizHandler) GenerateQuestions(c *gin.Context) {
	userID := c.GetString("user_id")

	allowance := h.tracker.Check(c.Request.Context(), userID)
	if !allowance.Allowed {
		quotaExceeded(c, allowance)
		return
	}

	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Notes) == "" {
		dto.JsonError(c, http.StatusBadRequest, "Please provide study notes")
		return
	}

	questions, err := h.generator.Generate(c.Request.Context(), generator.Request{
		Notes:        req.Notes,
		NumQuestions: req.NumQuestions,
		Type:         generator.QuestionType(req.QuestionType),
		Difficulty:   generator.Difficulty(req.Difficulty),
	})
	if err != nil {
		code, ok := generator.CodeOf(err)
		if !ok {
			code = generator.CodeProcessError
		}
		log.Printf("Generation failed for user %s: %v", userID, err)

		msg, ok := aiErrorMessages[code]
		if !ok {
			msg = "AI service error. Please try again."
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"code":    "AI_ERROR",
			"message": msg,
		})
		return
	}

	// Generation succeeded: consume one slot. The increment re-checks the
	// limit atomically, closing the race between the pre-check above and two
	// concurrent requests. A store failure is bookkeeping only and never
	// discards questions the user already paid the latency for.
	applied, err := h.tracker.Record(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to record generation for user %s: %v", userID, err)
	} else if !applied {
		quotaExceeded(c, h.tracker.Check(c.Request.Context(), userID))
		return
	}

	resp := dto.GenerateQuestionsResponse{
		Status:    "success",
		Questions: make([]dto.QuestionResponse, 0, len(questions)),
		Source:    "ai",
		Message:   "Questions generated successfully",
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			QuestionType:  string(q.Type),
			Difficulty:    string(q.Difficulty),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func quotaExceeded(c *gin.Context, allowance quota.Allowance) {
	c.JSON(http.StatusTooManyRequests, dto.QuotaExceededResponse{
		Status:    "error",
		Code:      "SESSION_LIMIT_EXCEEDED",
		Message:   fmt.Sprintf("Daily limit exceeded. You can create %d sessions per day.", allowance.Limit),
		ResetIn:   allowance.ResetIn,
		Remaining: allowance.Remaining,
		Limit:     allowance.Limit,
	})
}
