// Package call drives one voice interview call from initiation to completion.
//
// The voice SDK runs elsewhere (in the browser); its events are fed into a
// Machine, which is a pure transition function producing a new State and a
// list of Effects. A Controller owns the State of one call and executes the
// Effects against its collaborators.
package call

import (
	"fmt"
	"strings"

	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"
)

// Status of a call session. Progression is forward-only except that a failed
// start returns Connecting to Inactive.
type Status string

const (
	StatusInactive   Status = "INACTIVE"
	StatusConnecting Status = "CONNECTING"
	StatusActive     Status = "ACTIVE"
	StatusFinished   Status = "FINISHED"
)

// Mode selects what a call is for and what happens after it ends.
type Mode string

const (
	ModeGenerate  Mode = "generate"
	ModeInterview Mode = "interview"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGenerate:
		return ModeGenerate, nil
	case ModeInterview:
		return ModeInterview, nil
	}
	return "", fmt.Errorf("%w: unknown call mode %q", xerrors.ErrInvalidInput, s)
}

// Profile identifies who is calling and, for interviews, what is asked.
type Profile struct {
	UserName    string
	UserID      string
	InterviewID string
	FeedbackID  string
	Questions   []string
}

// Config holds the voice platform settings a call needs.
type Config struct {
	WebToken    string
	AssistantID string
	Interviewer *Assistant
}

// State is the observable state of one call.
type State struct {
	Status        Status
	Transcript    []interview.TranscriptEntry
	IsSpeaking    bool
	LastUtterance string
}

// Snapshot returns a copy that shares no memory with s.
func (s State) Snapshot() State {
	out := s
	out.Transcript = append([]interview.TranscriptEntry(nil), s.Transcript...)
	return out
}

// StartRequest is what the voice SDK is started with.
type StartRequest struct {
	AssistantID    string
	Assistant      *Assistant
	VariableValues map[string]string
}

// Notice is a user-visible notification.
type Notice struct {
	Kind    xerrors.Kind
	Message string
}

// FormatQuestions renders interview questions as a bullet list.
func FormatQuestions(questions []string) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, "- "+q)
	}
	return strings.Join(lines, "\n")
}

// FeedbackPath is where a finished interview navigates after feedback is saved.
func FeedbackPath(interviewID string) string {
	return "/interview/" + interviewID + "/feedback"
}

// HomePath is the fallback destination.
const HomePath = "/"
