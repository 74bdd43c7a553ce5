// internal/domain/interview/dto.go
package interview

// CreateFeedbackRequest is the input of feedback generation.
type CreateFeedbackRequest struct {
	InterviewID string            `json:"interviewId" binding:"required"`
	UserID      string            `json:"userId"`
	Transcript  []TranscriptEntry `json:"transcript"`
	FeedbackID  string            `json:"feedbackId,omitempty"`
}

// CreateFeedbackResult reports the outcome of feedback generation.
type CreateFeedbackResult struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedbackId,omitempty"`
}

// GenerateRequest asks for a new set of interview questions.
type GenerateRequest struct {
	Role      string   `json:"role" binding:"required"`
	Level     string   `json:"level" binding:"required"`
	Type      string   `json:"type" binding:"required"`
	Techstack []string `json:"techstack"`
	Amount    int      `json:"amount" binding:"required,min=1,max=20"`
	UserID    string   `json:"-"`
}

// LatestFilter selects finalized interviews of other users.
type LatestFilter struct {
	ExcludeUserID string
	Limit         int
}
