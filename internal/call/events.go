package call

import "prepwise-service/internal/domain/interview"

type EventKind string

const (
	// user actions
	EventStartRequested EventKind = "start-requested"
	EventStopRequested  EventKind = "stop-requested"

	// voice SDK events
	EventCallStart   EventKind = "call-start"
	EventCallEnd     EventKind = "call-end"
	EventMessage     EventKind = "message"
	EventSpeechStart EventKind = "speech-start"
	EventSpeechEnd   EventKind = "speech-end"
	EventError       EventKind = "error"

	// completions of awaited effects
	EventStartFailed  EventKind = "start-failed"
	EventFeedbackDone EventKind = "feedback-done"
)

// TranscriptMessage is the payload of a voice SDK "message" event.
type TranscriptMessage struct {
	Type           string
	TranscriptType string
	Role           string
	Transcript     string
}

// IsFinalTranscript reports whether m is a finalized spoken turn.
func (m *TranscriptMessage) IsFinalTranscript() bool {
	return m != nil && m.Type == "transcript" && m.TranscriptType == "final"
}

type Event struct {
	Kind     EventKind
	Message  *TranscriptMessage
	Err      any
	Feedback interview.CreateFeedbackResult
}

type EffectKind string

const (
	EffectStartVoice     EffectKind = "start-voice"
	EffectStopVoice      EffectKind = "stop-voice"
	EffectNotify         EffectKind = "notify"
	EffectNavigate       EffectKind = "navigate"
	EffectSubmitFeedback EffectKind = "submit-feedback"
)

type Effect struct {
	Kind     EffectKind
	Start    *StartRequest
	Notice   *Notice
	Path     string
	Feedback *interview.CreateFeedbackRequest
}
