// internal/service/feedback/feedback.go
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const inFlightTTL = 2 * time.Minute

var ErrSubmissionInFlight = errors.New("feedback submission already in progress")

// Scorer evaluates a formatted transcript against the rubric.
type Scorer interface {
	Score(ctx context.Context, transcript string) (*interview.Assessment, error)
}

// Store persists feedback.
type Store interface {
	Save(ctx context.Context, fb *interview.Feedback) error
	FindByID(ctx context.Context, id string) (*interview.Feedback, error)
	FindByInterview(ctx context.Context, interviewID, userID string) (*interview.Feedback, error)
}

// Guard serializes submissions per interview and user.
type Guard interface {
	AcquireFeedbackSlot(ctx context.Context, interviewID, userID string, ttl time.Duration) (bool, error)
	ReleaseFeedbackSlot(ctx context.Context, interviewID, userID string) error
}

// Recorder counts submission outcomes.
type Recorder interface {
	FeedbackResult(outcome string)
}

type FeedbackService struct {
	scorer   Scorer
	store    Store
	guard    Guard
	recorder Recorder
	logger   *zap.Logger
}

func NewFeedbackService(scorer Scorer, store Store, guard Guard, recorder Recorder, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		scorer:   scorer,
		store:    store,
		guard:    guard,
		recorder: recorder,
		logger:   logger,
	}
}

// FormatTranscript renders entries as "- role: content" lines.
func FormatTranscript(entries []interview.TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %s\n", e.Role, e.Content)
	}
	return b.String()
}

// CreateFeedback scores a transcript and stores the result. It never returns
// an error: every failure is logged and reported as Success=false.
func (s *FeedbackService) CreateFeedback(ctx context.Context, req *interview.CreateFeedbackRequest) interview.CreateFeedbackResult {
	if req == nil {
		req = &interview.CreateFeedbackRequest{}
	}
	id, err := s.create(ctx, req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrSubmissionInFlight) {
			outcome = "duplicate"
		}
		s.record(outcome)
		s.logger.Error("error saving feedback",
			zap.String("interview_id", req.InterviewID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return interview.CreateFeedbackResult{Success: false}
	}

	s.record("success")
	return interview.CreateFeedbackResult{Success: true, FeedbackID: id}
}

func (s *FeedbackService) create(ctx context.Context, req *interview.CreateFeedbackRequest) (string, error) {
	if req.InterviewID == "" || req.UserID == "" {
		return "", xerrors.ErrInvalidInput
	}
	if s.scorer == nil {
		return "", fmt.Errorf("%w: feedback scorer", xerrors.ErrConfigMissing)
	}

	if s.guard != nil {
		acquired, err := s.guard.AcquireFeedbackSlot(ctx, req.InterviewID, req.UserID, inFlightTTL)
		if err != nil {
			s.logger.Warn("feedback guard unavailable", zap.Error(err))
		} else if !acquired {
			return "", ErrSubmissionInFlight
		} else {
			defer func() {
				if err := s.guard.ReleaseFeedbackSlot(context.WithoutCancel(ctx), req.InterviewID, req.UserID); err != nil {
					s.logger.Warn("failed to release feedback guard", zap.Error(err))
				}
			}()
		}
	}

	if req.FeedbackID != "" {
		if err := s.checkOwnership(ctx, req); err != nil {
			return "", err
		}
	}

	assessment, err := s.scorer.Score(ctx, FormatTranscript(req.Transcript))
	if err != nil {
		return "", fmt.Errorf("failed to score transcript: %w", err)
	}
	if err := Normalize(assessment); err != nil {
		return "", err
	}

	fb := &interview.Feedback{
		ID:          req.FeedbackID,
		InterviewID: req.InterviewID,
		UserID:      req.UserID,
		Assessment:  *assessment,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Save(ctx, fb); err != nil {
		return "", xerrors.WrapKind(xerrors.KindPersistence, "failed to save feedback", err)
	}
	return fb.ID, nil
}

// checkOwnership rejects a feedback id that belongs to another user or
// interview. An unknown id is accepted and inserted.
func (s *FeedbackService) checkOwnership(ctx context.Context, req *interview.CreateFeedbackRequest) error {
	existing, err := s.store.FindByID(ctx, req.FeedbackID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}
	if existing.UserID != req.UserID || existing.InterviewID != req.InterviewID {
		return fmt.Errorf("%w: feedback %s", xerrors.ErrNotFound, req.FeedbackID)
	}
	return nil
}

// GetByInterview returns the user's feedback for an interview.
func (s *FeedbackService) GetByInterview(ctx context.Context, interviewID, userID string) (*interview.Feedback, error) {
	return s.store.FindByInterview(ctx, interviewID, userID)
}

// Normalize orders category scores by the rubric and clamps every score to
// 0-100. It rejects an assessment that does not cover the rubric exactly.
func Normalize(a *interview.Assessment) error {
	if a == nil {
		return fmt.Errorf("%w: empty assessment", xerrors.ErrInvalidInput)
	}

	byName := make(map[string]interview.CategoryScore, len(a.CategoryScores))
	for _, cs := range a.CategoryScores {
		byName[cs.Name] = cs
	}
	if len(byName) != len(interview.Categories) {
		return fmt.Errorf("%w: expected %d rubric categories, got %d",
			xerrors.ErrInvalidInput, len(interview.Categories), len(byName))
	}

	ordered := make([]interview.CategoryScore, 0, len(interview.Categories))
	for _, name := range interview.Categories {
		cs, ok := byName[name]
		if !ok {
			return fmt.Errorf("%w: missing rubric category %q", xerrors.ErrInvalidInput, name)
		}
		cs.Score = clamp(cs.Score)
		ordered = append(ordered, cs)
	}

	a.CategoryScores = ordered
	a.TotalScore = clamp(a.TotalScore)
	return nil
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

func (s *FeedbackService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.FeedbackResult(outcome)
	}
}
