package call

import (
	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"
)

// Machine computes call transitions. It holds no mutable state and is safe
// to share; every call to Apply returns the next State and the Effects the
// caller must perform, in order.
type Machine struct {
	mode    Mode
	profile Profile
	cfg     Config
}

func NewMachine(mode Mode, profile Profile, cfg Config) *Machine {
	if cfg.Interviewer == nil {
		cfg.Interviewer = DefaultInterviewer()
	}
	return &Machine{mode: mode, profile: profile, cfg: cfg}
}

func (m *Machine) Mode() Mode { return m.mode }

func (m *Machine) Apply(s State, ev Event) (State, []Effect) {
	switch ev.Kind {
	case EventStartRequested:
		return m.start(s)
	case EventStopRequested:
		effects := []Effect{{Kind: EffectStopVoice}}
		if s.Status == StatusFinished {
			return s, effects
		}
		next, exit := m.finish(s)
		return next, append(effects, exit...)
	}

	if s.Status == StatusFinished {
		if ev.Kind == EventFeedbackDone {
			return s, m.afterFeedback(ev.Feedback)
		}
		return s, nil
	}

	switch ev.Kind {
	case EventCallStart:
		// A start error may race with the SDK connecting anyway; the SDK is
		// the source of truth for whether media is flowing.
		s.Status = StatusActive
		return s, nil

	case EventCallEnd:
		return m.finish(s)

	case EventMessage:
		msg := ev.Message
		if !msg.IsFinalTranscript() {
			return s, nil
		}
		role := interview.Role(msg.Role)
		if !role.Valid() {
			return s, nil
		}
		s.Transcript = append(append([]interview.TranscriptEntry(nil), s.Transcript...),
			interview.TranscriptEntry{Role: role, Content: msg.Transcript})
		s.LastUtterance = msg.Transcript
		return s, nil

	case EventSpeechStart:
		s.IsSpeaking = true
		return s, nil

	case EventSpeechEnd:
		s.IsSpeaking = false
		return s, nil

	case EventError, EventStartFailed:
		return m.fail(s, ev)
	}

	return s, nil
}

func (m *Machine) start(s State) (State, []Effect) {
	if s.Status != StatusInactive {
		return s, nil
	}
	if m.cfg.WebToken == "" {
		return s, notify(xerrors.KindConfigMissing,
			"Missing VAPI_WEB_TOKEN. Voice calls cannot be started.")
	}

	req := &StartRequest{}
	switch m.mode {
	case ModeGenerate:
		if IsPlaceholder(m.cfg.AssistantID) {
			return s, notify(xerrors.KindPlaceholderConfig,
				"Set VAPI_ASSISTANT_ID. Voice web calls require an assistant id.")
		}
		req.AssistantID = m.cfg.AssistantID
		req.VariableValues = map[string]string{
			"username": m.profile.UserName,
			"userid":   m.profile.UserID,
		}
	default:
		req.Assistant = m.cfg.Interviewer
		req.VariableValues = map[string]string{
			"questions": FormatQuestions(m.profile.Questions),
		}
	}

	s.Status = StatusConnecting
	return s, []Effect{{Kind: EffectStartVoice, Start: req}}
}

func (m *Machine) fail(s State, ev Event) (State, []Effect) {
	classified := Classify(ev.Err)
	if classified.Kind == xerrors.KindRemoteTeardown {
		return m.finish(s)
	}

	prefix := "Voice error: "
	if ev.Kind == EventStartFailed {
		prefix = "Unable to start call: "
	}
	// Mid-call errors leave the status alone; only a failed connect rolls back.
	if s.Status == StatusConnecting {
		s.Status = StatusInactive
		s.IsSpeaking = false
	}
	return s, notify(classified.Kind, prefix+classified.Message)
}

// finish moves to Finished and returns the mode's exit action. Finished is
// terminal, so the exit action is produced at most once per session.
func (m *Machine) finish(s State) (State, []Effect) {
	s.Status = StatusFinished
	s.IsSpeaking = false

	if m.mode == ModeGenerate {
		return s, []Effect{{Kind: EffectNavigate, Path: HomePath}}
	}
	return s, []Effect{{
		Kind: EffectSubmitFeedback,
		Feedback: &interview.CreateFeedbackRequest{
			InterviewID: m.profile.InterviewID,
			UserID:      m.profile.UserID,
			Transcript:  append([]interview.TranscriptEntry(nil), s.Transcript...),
			FeedbackID:  m.profile.FeedbackID,
		},
	}}
}

func (m *Machine) afterFeedback(res interview.CreateFeedbackResult) []Effect {
	if res.Success && res.FeedbackID != "" {
		return []Effect{{Kind: EffectNavigate, Path: FeedbackPath(m.profile.InterviewID)}}
	}
	return []Effect{{Kind: EffectNavigate, Path: HomePath}}
}

func notify(kind xerrors.Kind, message string) []Effect {
	return []Effect{{Kind: EffectNotify, Notice: &Notice{Kind: kind, Message: message}}}
}
