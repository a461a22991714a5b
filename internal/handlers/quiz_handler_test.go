package handlers

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/generator"
	"reviseai-backend/internal/quota"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAIClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeAIClient) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeQuotaStore struct {
	used int
	err  error
}

func (s *fakeQuotaStore) ResetIfNewDay(_ context.Context, _ string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.used, nil
}

func (s *fakeQuotaStore) IncrementUsage(_ context.Context, _ string, limit int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.used >= limit {
		return false, nil
	}
	s.used++
	return true, nil
}

func newGenerateRouter(client generator.Client, store quota.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	gen := generator.New(client, generator.NewBalancer(rand.New(rand.NewSource(1))))
	handler := NewQuizHandler(gen, quota.NewTracker(store))

	router := gin.New()
	router.POST("/api/questions/generate", func(c *gin.Context) {
		c.Set("user_id", "u1")
	}, handler.GenerateQuestions)

	return router
}

func postGenerate(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/questions/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const skewedResponse = `{"questions":[
	{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q2","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q3","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q4","options":["A","B","C","D"],"correctAnswer":1}]}`

func TestGenerateQuestions_SuccessConsumesQuota(t *testing.T) {
	client := &fakeAIClient{response: skewedResponse}
	store := &fakeQuotaStore{}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"the krebs cycle","num_questions":4,"question_type":"mcq"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.GenerateQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "ai", resp.Source)
	require.Len(t, resp.Questions, 4)

	assert.Equal(t, 1, store.used, "exactly one quota slot per successful generation")

	counts := make(map[int]int)
	for _, q := range resp.Questions {
		counts[q.CorrectAnswer]++
	}
	for pos, c := range counts {
		assert.LessOrEqual(t, c, 1, "position %d over target after balancing", pos)
	}
}

func TestGenerateQuestions_QuotaExhaustedBlocksBeforeAICall(t *testing.T) {
	client := &fakeAIClient{response: skewedResponse}
	store := &fakeQuotaStore{used: quota.DailyLimit}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"notes"}`)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, client.calls, "no AI call when quota is exhausted")
	assert.Equal(t, quota.DailyLimit, store.used)

	var resp dto.QuotaExceededResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SESSION_LIMIT_EXCEEDED", resp.Code)
	assert.Equal(t, 0, resp.Remaining)
	assert.Equal(t, quota.DailyLimit, resp.Limit)
}

func TestGenerateQuestions_MissingNotesRejectedWithoutQuota(t *testing.T) {
	client := &fakeAIClient{response: skewedResponse}
	store := &fakeQuotaStore{}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"   "}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, client.calls)
	assert.Zero(t, store.used, "input errors must not consume quota")
}

func TestGenerateQuestions_InvalidAIResponseDoesNotConsumeQuota(t *testing.T) {
	client := &fakeAIClient{response: "sorry, I cannot help with that"}
	store := &fakeQuotaStore{}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"notes"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, store.used, "failed generations must not consume quota")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI_ERROR", resp["code"])
	assert.Equal(t, "AI returned an invalid response format. Please try again.", resp["message"])
}

func TestGenerateQuestions_AIFailureMappedToFixedMessage(t *testing.T) {
	client := &fakeAIClient{err: generator.NewError(generator.CodeNoAPIKey, nil)}
	store := &fakeQuotaStore{}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"notes"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, store.used)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI service not configured. Please contact support.", resp["message"])
}

func TestGenerateQuestions_QuotaStoreDownStillReturnsQuestions(t *testing.T) {
	// Fail open on check, best effort on record: an unreachable store never
	// blocks the user or discards generated questions.
	client := &fakeAIClient{response: skewedResponse}
	store := &fakeQuotaStore{err: assert.AnError}
	router := newGenerateRouter(client, store)

	w := postGenerate(router, `{"notes":"notes","num_questions":4}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.GenerateQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 4)
}
