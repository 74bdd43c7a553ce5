// internal/service/interview/interview.go
package interview

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const (
	DefaultLatestLimit = 20
	maxLatestLimit     = 100
)

var coverImages = []string{
	"/covers/adobe.png",
	"/covers/amazon.png",
	"/covers/facebook.png",
	"/covers/hostinger.png",
	"/covers/pinterest.png",
	"/covers/quora.png",
	"/covers/reddit.png",
	"/covers/skype.png",
	"/covers/spotify.png",
	"/covers/telegram.png",
	"/covers/tiktok.png",
	"/covers/yahoo.png",
}

// Store persists interviews.
type Store interface {
	Create(ctx context.Context, iv *interview.Interview) error
	GetByID(ctx context.Context, id string) (*interview.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]*interview.Interview, error)
	ListLatest(ctx context.Context, filter interview.LatestFilter) ([]*interview.Interview, error)
}

// QuestionGenerator produces interview questions for a role.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req *interview.GenerateRequest) ([]string, error)
}

type InterviewService struct {
	store     Store
	generator QuestionGenerator
	logger    *zap.Logger
}

func NewInterviewService(store Store, generator QuestionGenerator, logger *zap.Logger) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{store: store, generator: generator, logger: logger}
}

func (s *InterviewService) Get(ctx context.Context, id string) (*interview.Interview, error) {
	return s.store.GetByID(ctx, id)
}

// ListMine returns the user's interviews, newest first.
func (s *InterviewService) ListMine(ctx context.Context, userID string) ([]*interview.Interview, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

// ListLatest returns finalized interviews created by other users.
func (s *InterviewService) ListLatest(ctx context.Context, userID string, limit int) ([]*interview.Interview, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	if limit > maxLatestLimit {
		limit = maxLatestLimit
	}
	list, err := s.store.ListLatest(ctx, interview.LatestFilter{ExcludeUserID: userID, Limit: limit})
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

// Generate creates a finalized interview with model-generated questions.
func (s *InterviewService) Generate(ctx context.Context, req *interview.GenerateRequest) (*interview.Interview, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: question generator", xerrors.ErrConfigMissing)
	}
	if req.UserID == "" || strings.TrimSpace(req.Role) == "" || req.Amount <= 0 {
		return nil, xerrors.ErrInvalidInput
	}

	questions, err := s.generator.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}
	questions = cleanQuestions(questions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("failed to generate questions: model returned none")
	}

	iv := &interview.Interview{
		UserID:     req.UserID,
		Role:       strings.TrimSpace(req.Role),
		Level:      strings.TrimSpace(req.Level),
		Type:       strings.TrimSpace(req.Type),
		Techstack:  cleanQuestions(req.Techstack),
		Questions:  questions,
		Finalized:  true,
		CoverImage: coverImages[rand.IntN(len(coverImages))],
	}
	if err := s.store.Create(ctx, iv); err != nil {
		return nil, err
	}

	s.logger.Info("interview generated",
		zap.String("interview_id", iv.ID),
		zap.String("user_id", iv.UserID),
		zap.Int("questions", len(iv.Questions)),
	)
	return iv, nil
}

func cleanQuestions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func nonNil(list []*interview.Interview) []*interview.Interview {
	if list == nil {
		return []*interview.Interview{}
	}
	return list
}
