// internal/domain/interview/entity.go
package interview

import "time"

// Role of a transcript speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known speaker roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSystem, RoleAssistant:
		return true
	}
	return false
}

// TranscriptEntry is one finalized spoken turn.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Interview is a set of questions a user can practise against.
type Interview struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	Role       string    `json:"role" db:"role"`
	Level      string    `json:"level" db:"level"`
	Type       string    `json:"type" db:"type"`
	Techstack  []string  `json:"techstack" db:"techstack"`
	Questions  []string  `json:"questions" db:"questions"`
	Finalized  bool      `json:"finalized" db:"finalized"`
	CoverImage string    `json:"coverImage,omitempty" db:"cover_image"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Rubric categories, in scoring order.
const (
	CategoryCommunication  = "Communication Skills"
	CategoryTechnical      = "Technical Knowledge"
	CategoryProblemSolving = "Problem Solving"
	CategoryCulturalFit    = "Cultural Fit"
	CategoryConfidence     = "Confidence and Clarity"
)

// Categories lists the fixed rubric.
var Categories = []string{
	CategoryCommunication,
	CategoryTechnical,
	CategoryProblemSolving,
	CategoryCulturalFit,
	CategoryConfidence,
}

// CategoryScore is the score and commentary for one rubric category.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Assessment is the model's evaluation of a transcript.
type Assessment struct {
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
}

// Feedback is a persisted assessment for one interview attempt.
type Feedback struct {
	ID          string    `json:"id" db:"id"`
	InterviewID string    `json:"interviewId" db:"interview_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Assessment
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
