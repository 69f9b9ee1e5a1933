package repository

import (
	"context"
	"fmt"
	"time"

	"homefinder/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS recommendation_logs (
	id                 BIGSERIAL PRIMARY KEY,
	request_id         TEXT NOT NULL UNIQUE,
	session_id         TEXT NOT NULL DEFAULT '',
	language           TEXT NOT NULL,
	location           TEXT NOT NULL DEFAULT '',
	property_type      TEXT NOT NULL DEFAULT '',
	budget_min         BIGINT NOT NULL DEFAULT 0,
	budget_max         BIGINT NOT NULL DEFAULT 0,
	attempts           INT NOT NULL DEFAULT 0,
	status             TEXT NOT NULL,
	result_count       INT NOT NULL DEFAULT 0,
	recommendation_ids JSONB,
	response_time_ms   BIGINT NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recommendation_feedback (
	id                BIGSERIAL PRIMARY KEY,
	request_id        TEXT NOT NULL REFERENCES recommendation_logs (request_id),
	recommendation_id TEXT NOT NULL,
	action            TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresRepository stores pipeline runs and user feedback
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing handle
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the log tables when missing
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LogRecommendation records one pipeline run
func (r *PostgresRepository) LogRecommendation(ctx context.Context, run model.RecommendationRun) error {
	query := `
		INSERT INTO recommendation_logs (
			request_id, session_id, language, location, property_type,
			budget_min, budget_max, attempts, status, result_count,
			recommendation_ids, response_time_ms
		) VALUES (
			:request_id, :session_id, :language, :location, :property_type,
			:budget_min, :budget_max, :attempts, :status, :result_count,
			:recommendation_ids, :response_time_ms
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to log recommendation: %w", err)
	}
	return nil
}

// LogFeedback records a user action on one recommendation
func (r *PostgresRepository) LogFeedback(ctx context.Context, requestID, recommendationID, action string) error {
	query := `
		INSERT INTO recommendation_feedback (request_id, recommendation_id, action)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, requestID, recommendationID, action); err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]model.RecommendationRun, error) {
	query := `
		SELECT request_id, session_id, language, location, property_type,
		       budget_min, budget_max, attempts, status, result_count,
		       recommendation_ids, response_time_ms, created_at
		FROM recommendation_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	var runs []model.RecommendationRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
