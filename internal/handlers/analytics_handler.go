package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/repository"
	"reviseai-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	study *service.StudyService
}

func NewAnalyticsHandler(study *service.StudyService) *AnalyticsHandler {
	return &AnalyticsHandler{study: study}
}

// ChartData returns the recent sessions shaped for the score chart.
func (h *AnalyticsHandler) ChartData(c *gin.Context) {
	userID := c.GetString("user_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	summaries, err := h.study.ChartSessions(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("Failed to get chart data for user %s: %v", userID, err)
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}

	resp := dto.ChartDataResponse{
		Labels:    make([]string, 0, len(summaries)),
		Scores:    make([]float64, 0, len(summaries)),
		Questions: make([]int, 0, len(summaries)),
	}
	for _, s := range summaries {
		resp.Labels = append(resp.Labels, s.CreatedAt.Format(time.RFC3339))
		resp.Scores = append(resp.Scores, s.ScorePercentage)
		resp.Questions = append(resp.Questions, s.TotalQuestions)
	}

	c.JSON(http.StatusOK, resp)
}

// TypeDifficulty aggregates accuracy per question type and difficulty over
// the user's whole history.
func (h *AnalyticsHandler) TypeDifficulty(c *gin.Context) {
	h.typeDifficulty(c, nil)
}

// TypeDifficultyFiltered restricts the aggregation to the posted session ids.
func (h *AnalyticsHandler) TypeDifficultyFiltered(c *gin.Context) {
	var req dto.AnalyticsFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.SessionIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   dto.TypeDifficultyResponse{QuestionTypes: []dto.StatsEntry{}, Difficulties: []dto.StatsEntry{}},
		})
		return
	}

	h.typeDifficulty(c, req.SessionIDs)
}

func (h *AnalyticsHandler) typeDifficulty(c *gin.Context, sessionIDs []string) {
	userID := c.GetString("user_id")

	types, difficulties, err := h.study.TypeDifficultyStats(c.Request.Context(), userID, sessionIDs)
	if err != nil {
		log.Printf("Failed to get analytics for user %s: %v", userID, err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to fetch analytics data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": dto.TypeDifficultyResponse{
			QuestionTypes: toStatsEntries(types),
			Difficulties:  toStatsEntries(difficulties),
		},
	})
}

func toStatsEntries(stats []*repository.TypeStats) []dto.StatsEntry {
	entries := make([]dto.StatsEntry, 0, len(stats))
	for _, s := range stats {
		entries = append(entries, dto.StatsEntry{
			Key:            s.Key,
			TotalQuestions: s.TotalQuestions,
			CorrectAnswers: s.CorrectAnswers,
		})
	}
	return entries
}
