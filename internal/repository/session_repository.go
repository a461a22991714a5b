package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type Session struct {
	ID              string
	UserID          string
	Title           string
	Notes           string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds float64
	CreatedAt       time.Time
}

type Card struct {
	ID            string
	SessionID     string
	Question      string
	Options       []string
	CorrectAnswer int
	UserAnswer    sql.NullInt64
	IsCorrect     sql.NullBool
	QuestionType  string
	Difficulty    string
	CreatedAt     time.Time
}

type SessionSummary struct {
	ID              string
	Title           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TotalQuestions  int
	CorrectAnswers  int
	ScorePercentage float64
	QuestionTypes   []string
	DurationSeconds float64
}

type TypeStats struct {
	Key            string
	TotalQuestions int
	CorrectAnswers int
}

// CreateSession writes the session and its cards in one transaction. Any
// cards already stored for the session are replaced.
func (r *SessionRepository) CreateSession(ctx context.Context, session *Session, cards []*Card) error {
	session.ID = uuid.New().String()
	session.CreatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO study_sessions (id, user_id, title, notes, started_at, ended_at, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Notes,
		session.StartedAt,
		session.EndedAt,
		session.DurationSeconds,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	deleteQuery := `DELETE FROM study_cards WHERE session_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, session.ID); err != nil {
		return fmt.Errorf("failed to clear existing cards: %w", err)
	}

	cardQuery := `
		INSERT INTO study_cards (id, session_id, question, options, correct_answer, user_answer, is_correct, question_type, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, card := range cards {
		card.ID = uuid.New().String()
		card.SessionID = session.ID

		optionsJSON, err := json.Marshal(card.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}

		_, err = tx.ExecContext(ctx, cardQuery,
			card.ID,
			card.SessionID,
			card.Question,
			string(optionsJSON),
			card.CorrectAnswer,
			card.UserAnswer,
			card.IsCorrect,
			card.QuestionType,
			card.Difficulty,
		)
		if err != nil {
			return fmt.Errorf("failed to create card: %w", err)
		}
	}

	return tx.Commit()
}

const summaryQuery = `
	SELECT
		s.id,
		s.title,
		s.created_at,
		s.ended_at,
		s.duration_seconds,
		COUNT(c.id) AS total_questions,
		COALESCE(SUM(CASE WHEN c.is_correct THEN 1 ELSE 0 END), 0) AS correct_answers,
		CASE
			WHEN COUNT(c.id) > 0
			THEN ROUND(SUM(CASE WHEN c.is_correct THEN 1 ELSE 0 END) * 100.0 / COUNT(c.id), 2)
			ELSE 0
		END AS score_percentage,
		COALESCE(STRING_AGG(DISTINCT c.question_type, ','), '') AS question_types
	FROM study_sessions s
	LEFT JOIN study_cards c ON s.id = c.session_id
	WHERE s.user_id = $1
	GROUP BY s.id, s.title, s.created_at
	ORDER BY s.created_at DESC
`

// GetSummaries returns the user's sessions with their aggregated score.
func (r *SessionRepository) GetSummaries(ctx context.Context, userID string) ([]*SessionSummary, error) {
	return r.querySummaries(ctx, summaryQuery, userID)
}

// GetChartSummaries returns the most recent sessions capped at limit, for
// the score chart.
func (r *SessionRepository) GetChartSummaries(ctx context.Context, userID string, limit int) ([]*SessionSummary, error) {
	return r.querySummaries(ctx, summaryQuery+" LIMIT $2", userID, limit)
}

func (r *SessionRepository) querySummaries(ctx context.Context, query string, args ...interface{}) ([]*SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var summaries []*SessionSummary
	for rows.Next() {
		summary := &SessionSummary{}
		var types string

		err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.DurationSeconds,
			&summary.TotalQuestions,
			&summary.CorrectAnswers,
			&summary.ScorePercentage,
			&types,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}

		if types != "" {
			summary.QuestionTypes = strings.Split(types, ",")
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

func (r *SessionRepository) GetCards(ctx context.Context, sessionID string) ([]*Card, error) {
	query := `
		SELECT id, session_id, question, options, correct_answer, user_answer, is_correct, question_type, difficulty, created_at
		FROM study_cards
		WHERE session_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		card := &Card{}
		var optionsJSON string

		err := rows.Scan(
			&card.ID,
			&card.SessionID,
			&card.Question,
			&optionsJSON,
			&card.CorrectAnswer,
			&card.UserAnswer,
			&card.IsCorrect,
			&card.QuestionType,
			&card.Difficulty,
			&card.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}

		if err := json.Unmarshal([]byte(optionsJSON), &card.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}

		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// IsOwner reports whether the session belongs to the user.
func (r *SessionRepository) IsOwner(ctx context.Context, sessionID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM study_sessions WHERE id = $1 AND user_id = $2)`

	var owned bool
	if err := r.db.QueryRowContext(ctx, query, sessionID, userID).Scan(&owned); err != nil {
		return false, fmt.Errorf("failed to check session owner: %w", err)
	}

	return owned, nil
}

// DeleteSession removes the session; its cards go with it via the foreign
// key cascade. Returns false when no session matched the id and user.
func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID, userID string) (bool, error) {
	query := `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// GetTypeStats aggregates correct/total counts per question type across the
// user's cards. sessionIDs narrows the aggregation when non-empty.
func (r *SessionRepository) GetTypeStats(ctx context.Context, userID string, sessionIDs []string) ([]*TypeStats, error) {
	return r.queryStats(ctx, "c.question_type", userID, sessionIDs)
}

// GetDifficultyStats aggregates correct/total counts per difficulty.
func (r *SessionRepository) GetDifficultyStats(ctx context.Context, userID string, sessionIDs []string) ([]*TypeStats, error) {
	return r.queryStats(ctx, "c.difficulty", userID, sessionIDs)
}

func (r *SessionRepository) queryStats(ctx context.Context, column, userID string, sessionIDs []string) ([]*TypeStats, error) {
	query := fmt.Sprintf(`
		SELECT
			%s,
			COUNT(*) AS total_questions,
			COALESCE(SUM(CASE WHEN c.is_correct THEN 1 ELSE 0 END), 0) AS correct_answers
		FROM study_cards c
		JOIN study_sessions s ON s.id = c.session_id
		WHERE s.user_id = $1
	`, column)

	args := []interface{}{userID}
	if len(sessionIDs) > 0 {
		query += " AND c.session_id = ANY($2)"
		args = append(args, pq.Array(sessionIDs))
	}
	query += fmt.Sprintf(" GROUP BY %s", column)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats []*TypeStats
	for rows.Next() {
		st := &TypeStats{}
		if err := rows.Scan(&st.Key, &st.TotalQuestions, &st.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}
