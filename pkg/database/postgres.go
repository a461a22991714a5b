package database

import (
	"context"
	"database/sql"
	"fmt"

	"reviseai-backend/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createUsersTable := `
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			subscription_tier VARCHAR(20) NOT NULL DEFAULT 'free',
			sessions_used_today INTEGER NOT NULL DEFAULT 0,
			last_session_date DATE,
			total_sessions_used INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`

	createStudySessionsTable := `
		CREATE TABLE IF NOT EXISTS study_sessions (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			title VARCHAR(255) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP NOT NULL,
			duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_study_sessions_user_id ON study_sessions(user_id);
		CREATE INDEX IF NOT EXISTS idx_study_sessions_created_at ON study_sessions(created_at);
	`

	createStudyCardsTable := `
		CREATE TABLE IF NOT EXISTS study_cards (
			id VARCHAR(255) PRIMARY KEY,
			session_id VARCHAR(255) NOT NULL,
			question TEXT NOT NULL,
			options JSONB NOT NULL DEFAULT '[]',
			correct_answer INTEGER NOT NULL,
			user_answer INTEGER,
			is_correct BOOLEAN,
			question_type VARCHAR(20) NOT NULL DEFAULT 'mcq',
			difficulty VARCHAR(20) NOT NULL DEFAULT 'normal',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES study_sessions(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_study_cards_session_id ON study_cards(session_id);
	`

	if _, err := c.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, createStudySessionsTable); err != nil {
		return fmt.Errorf("failed to create study_sessions table: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, createStudyCardsTable); err != nil {
		return fmt.Errorf("failed to create study_cards table: %w", err)
	}

	return nil
}
