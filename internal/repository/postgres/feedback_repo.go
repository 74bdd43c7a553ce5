// internal/repository/postgres/feedback_repo.go
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

type FeedbackRepository struct {
	db *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Save replaces the feedback with fb.ID, or inserts a new one when fb.ID is
// empty. The stored ID is written back to fb.
func (r *FeedbackRepository) Save(ctx context.Context, fb *interview.Feedback) error {
	if fb.ID == "" {
		fb.ID = ulid.Make().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	scores, err := json.Marshal(nonNil(fb.CategoryScores))
	if err != nil {
		return fmt.Errorf("failed to encode category scores: %w", err)
	}
	strengths, err := json.Marshal(nonNil(fb.Strengths))
	if err != nil {
		return fmt.Errorf("failed to encode strengths: %w", err)
	}
	areas, err := json.Marshal(nonNil(fb.AreasForImprovement))
	if err != nil {
		return fmt.Errorf("failed to encode areas for improvement: %w", err)
	}

	query := `
		INSERT INTO feedback (
			id, interview_id, user_id, total_score, category_scores,
			strengths, areas_for_improvement, final_assessment, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			interview_id = EXCLUDED.interview_id,
			user_id = EXCLUDED.user_id,
			total_score = EXCLUDED.total_score,
			category_scores = EXCLUDED.category_scores,
			strengths = EXCLUDED.strengths,
			areas_for_improvement = EXCLUDED.areas_for_improvement,
			final_assessment = EXCLUDED.final_assessment,
			created_at = EXCLUDED.created_at
		WHERE feedback.user_id = EXCLUDED.user_id
		  AND feedback.interview_id = EXCLUDED.interview_id
	`
	tag, err := r.db.Exec(ctx, query,
		fb.ID, fb.InterviewID, fb.UserID, fb.TotalScore, scores,
		strengths, areas, fb.FinalAssessment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	// An id owned by another user or interview is left untouched.
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// FindByID returns the feedback with the given id.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*interview.Feedback, error) {
	query := `
		SELECT id, interview_id, user_id, total_score, category_scores,
		       strengths, areas_for_improvement, final_assessment, created_at
		FROM feedback
		WHERE id = $1
	`
	return scanFeedback(r.db.QueryRow(ctx, query, id))
}

// FindByInterview returns the user's most recent feedback for an interview.
func (r *FeedbackRepository) FindByInterview(ctx context.Context, interviewID, userID string) (*interview.Feedback, error) {
	query := `
		SELECT id, interview_id, user_id, total_score, category_scores,
		       strengths, areas_for_improvement, final_assessment, created_at
		FROM feedback
		WHERE interview_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanFeedback(r.db.QueryRow(ctx, query, interviewID, userID))
}

func scanFeedback(row pgx.Row) (*interview.Feedback, error) {
	var (
		fb                       interview.Feedback
		scores, strengths, areas []byte
	)
	err := row.Scan(
		&fb.ID, &fb.InterviewID, &fb.UserID, &fb.TotalScore, &scores,
		&strengths, &areas, &fb.FinalAssessment, &fb.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}

	for _, f := range []struct {
		raw    []byte
		target any
	}{
		{scores, &fb.CategoryScores},
		{strengths, &fb.Strengths},
		{areas, &fb.AreasForImprovement},
	} {
		if err := json.Unmarshal(f.raw, f.target); err != nil {
			return nil, fmt.Errorf("failed to decode feedback: %w", err)
		}
	}
	return &fb, nil
}
