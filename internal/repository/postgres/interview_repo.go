// internal/repository/postgres/interview_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const interviewColumns = `id, user_id, role, level, type, techstack, questions, finalized, cover_image, created_at`

type InterviewRepository struct {
	db *pgxpool.Pool
}

func NewInterviewRepository(db *pgxpool.Pool) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// Create inserts iv, assigning its ID and creation time.
func (r *InterviewRepository) Create(ctx context.Context, iv *interview.Interview) error {
	iv.ID = ulid.Make().String()
	iv.CreatedAt = time.Now().UTC()

	techstack, err := json.Marshal(nonNil(iv.Techstack))
	if err != nil {
		return fmt.Errorf("failed to encode techstack: %w", err)
	}
	questions, err := json.Marshal(nonNil(iv.Questions))
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	query := `
		INSERT INTO interviews (` + interviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		iv.ID, iv.UserID, iv.Role, iv.Level, iv.Type,
		techstack, questions, iv.Finalized, iv.CoverImage, iv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetByID retrieves an interview by id
func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*interview.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`

	iv, err := scanInterview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// ListByUser returns the user's interviews, newest first.
func (r *InterviewRepository) ListByUser(ctx context.Context, userID string) ([]*interview.Interview, error) {
	query := `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListLatest returns finalized interviews of other users, newest first.
func (r *InterviewRepository) ListLatest(ctx context.Context, filter interview.LatestFilter) ([]*interview.Interview, error) {
	query := `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE finalized = TRUE AND user_id <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, filter.ExcludeUserID, filter.Limit)
}

func (r *InterviewRepository) list(ctx context.Context, query string, args ...any) ([]*interview.Interview, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var out []*interview.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return out, nil
}

func scanInterview(row pgx.Row) (*interview.Interview, error) {
	var (
		iv                   interview.Interview
		techstack, questions []byte
	)
	err := row.Scan(
		&iv.ID, &iv.UserID, &iv.Role, &iv.Level, &iv.Type,
		&techstack, &questions, &iv.Finalized, &iv.CoverImage, &iv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(techstack, &iv.Techstack); err != nil {
		return nil, fmt.Errorf("failed to decode techstack: %w", err)
	}
	if err := json.Unmarshal(questions, &iv.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return &iv, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
