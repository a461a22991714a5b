package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reviseai-backend/internal/repository"
)

// Cache is the summary cache as the service needs it. Implementations must
// make Invalidate synchronous: when it returns, the next Get misses.
type Cache interface {
	Get(ctx context.Context, userID string) ([]*repository.SessionSummary, bool)
	Set(ctx context.Context, userID string, summaries []*repository.SessionSummary)
	Invalidate(ctx context.Context, userID string)
}

// SessionStore is the persistence side of the service.
type SessionStore interface {
	CreateSession(ctx context.Context, session *repository.Session, cards []*repository.Card) error
	GetSummaries(ctx context.Context, userID string) ([]*repository.SessionSummary, error)
	GetChartSummaries(ctx context.Context, userID string, limit int) ([]*repository.SessionSummary, error)
	GetCards(ctx context.Context, sessionID string) ([]*repository.Card, error)
	IsOwner(ctx context.Context, sessionID, userID string) (bool, error)
	DeleteSession(ctx context.Context, sessionID, userID string) (bool, error)
	GetTypeStats(ctx context.Context, userID string, sessionIDs []string) ([]*repository.TypeStats, error)
	GetDifficultyStats(ctx context.Context, userID string, sessionIDs []string) ([]*repository.TypeStats, error)
}

type CardInput struct {
	Question      string
	Options       []string
	CorrectAnswer int
	UserAnswer    *int
	QuestionType  string
	Difficulty    string
}

// StudyService owns saved study sessions: persistence, the summary cache in
// front of the session list, and the analytics aggregations.
type StudyService struct {
	sessionRepo SessionStore
	cache       Cache
}

func NewStudyService(db *sql.DB, cache Cache) *StudyService {
	return &StudyService{
		sessionRepo: repository.NewSessionRepository(db),
		cache:       cache,
	}
}

// SaveSession persists a completed quiz run and its cards, then evicts the
// user's cached summaries so the next list reflects the write.
func (s *StudyService) SaveSession(ctx context.Context, userID, notes string, startedAt, endedAt time.Time, durationSeconds float64, inputs []CardInput) (string, error) {
	session := &repository.Session{
		UserID:          userID,
		Title:           fmt.Sprintf("Study Session %s", startedAt.Format("2006-01-02 at 15:04")),
		Notes:           notes,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationSeconds: durationSeconds,
	}

	cards := make([]*repository.Card, 0, len(inputs))
	for _, in := range inputs {
		card := &repository.Card{
			Question:      in.Question,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			QuestionType:  in.QuestionType,
			Difficulty:    in.Difficulty,
		}
		if in.UserAnswer != nil {
			card.UserAnswer = sql.NullInt64{Int64: int64(*in.UserAnswer), Valid: true}
			card.IsCorrect = sql.NullBool{Bool: *in.UserAnswer == in.CorrectAnswer, Valid: true}
		}
		cards = append(cards, card)
	}

	if err := s.sessionRepo.CreateSession(ctx, session, cards); err != nil {
		return "", err
	}

	s.cache.Invalidate(ctx, userID)

	return session.ID, nil
}

// ListSessions returns the user's session summaries, serving from the cache
// when it holds a fresh entry.
func (s *StudyService) ListSessions(ctx context.Context, userID string) ([]*repository.SessionSummary, error) {
	if summaries, ok := s.cache.Get(ctx, userID); ok {
		return summaries, nil
	}

	summaries, err := s.sessionRepo.GetSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, userID, summaries)

	return summaries, nil
}

// ChartSessions returns the most recent sessions capped at limit. Chart
// reads bypass the cache: the limit varies per request.
func (s *StudyService) ChartSessions(ctx context.Context, userID string, limit int) ([]*repository.SessionSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.sessionRepo.GetChartSummaries(ctx, userID, limit)
}

func (s *StudyService) GetCards(ctx context.Context, userID, sessionID string) ([]*repository.Card, error) {
	owned, err := s.sessionRepo.IsOwner(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("session not found")
	}

	return s.sessionRepo.GetCards(ctx, sessionID)
}

// DeleteSession removes the session and its cards, then evicts the user's
// cached summaries. Returns false when the session did not belong to the
// user.
func (s *StudyService) DeleteSession(ctx context.Context, userID, sessionID string) (bool, error) {
	deleted, err := s.sessionRepo.DeleteSession(ctx, sessionID, userID)
	if err != nil {
		return false, err
	}

	if deleted {
		s.cache.Invalidate(ctx, userID)
	}

	return deleted, nil
}

// TypeDifficultyStats aggregates per-type and per-difficulty accuracy over
// the user's cards, optionally narrowed to specific sessions.
func (s *StudyService) TypeDifficultyStats(ctx context.Context, userID string, sessionIDs []string) ([]*repository.TypeStats, []*repository.TypeStats, error) {
	types, err := s.sessionRepo.GetTypeStats(ctx, userID, sessionIDs)
	if err != nil {
		return nil, nil, err
	}

	difficulties, err := s.sessionRepo.GetDifficultyStats(ctx, userID, sessionIDs)
	if err != nil {
		return nil, nil, err
	}

	return types, difficulties, nil
}

// InvalidateCache evicts the user's cached summaries. Exposed for callers
// outside the save/delete paths, such as logout.
func (s *StudyService) InvalidateCache(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, userID)
}
