package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type User struct {
	ID                string
	Email             string
	SubscriptionTier  string
	SessionsUsedToday int
	LastSessionDate   sql.NullTime
	TotalSessionsUsed int
	CreatedAt         time.Time
}

// GetOrCreateUser upserts a user by email in a single statement, so two
// concurrent first logins for the same address resolve to one row.
func (r *UserRepository) GetOrCreateUser(ctx context.Context, email string) (*User, error) {
	query := `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, subscription_tier, sessions_used_today, last_session_date, total_sessions_used, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, uuid.New().String(), email).Scan(
		&user.ID,
		&user.Email,
		&user.SubscriptionTier,
		&user.SessionsUsedToday,
		&user.LastSessionDate,
		&user.TotalSessionsUsed,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT id, email, subscription_tier, sessions_used_today, last_session_date, total_sessions_used, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.SubscriptionTier,
		&user.SessionsUsedToday,
		&user.LastSessionDate,
		&user.TotalSessionsUsed,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ResetIfNewDay performs the lazy midnight reset as one read-modify-write:
// when the stored date differs from the current calendar date the counter
// drops to zero and the date is stamped, otherwise both are left as they
// were. Returns the post-reset counter.
func (r *UserRepository) ResetIfNewDay(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE users
		SET sessions_used_today = CASE
				WHEN last_session_date IS DISTINCT FROM CURRENT_DATE THEN 0
				ELSE sessions_used_today
			END,
			last_session_date = CURRENT_DATE
		WHERE id = $1
		RETURNING sessions_used_today
	`

	var used int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to reset daily usage: %w", err)
	}

	return used, nil
}

// IncrementUsage records one successful generation. The guard in the WHERE
// clause re-checks the limit inside the same statement, so two concurrent
// requests cannot both take the last slot. Returns false when the limit was
// already reached.
func (r *UserRepository) IncrementUsage(ctx context.Context, userID string, limit int) (bool, error) {
	query := `
		UPDATE users
		SET sessions_used_today = CASE
				WHEN last_session_date IS DISTINCT FROM CURRENT_DATE THEN 1
				ELSE sessions_used_today + 1
			END,
			total_sessions_used = total_sessions_used + 1,
			last_session_date = CURRENT_DATE
		WHERE id = $1
		  AND (last_session_date IS DISTINCT FROM CURRENT_DATE OR sessions_used_today < $2)
	`

	result, err := r.db.ExecContext(ctx, query, userID, limit)
	if err != nil {
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}
