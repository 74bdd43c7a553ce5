package call

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prepwise-service/internal/domain/interview"
	xerrors "prepwise-service/internal/pkg/errors"
)

const DefaultFeedbackTimeout = 60 * time.Second

// VoiceClient drives the underlying real-time voice session.
type VoiceClient interface {
	Start(ctx context.Context, req StartRequest) error
	Stop() error
}

// Presenter shows call progress to the user.
type Presenter interface {
	Render(state State)
	Notify(notice Notice)
	Navigate(path string)
}

// FeedbackGenerator turns a finished interview transcript into stored feedback.
type FeedbackGenerator interface {
	CreateFeedback(ctx context.Context, req *interview.CreateFeedbackRequest) interview.CreateFeedbackResult
}

// Observer receives lifecycle signals, typically for metrics.
type Observer interface {
	CallTransition(mode Mode, from, to Status)
	CallNotice(mode Mode, kind xerrors.Kind)
}

type Options struct {
	Voice           VoiceClient
	Presenter       Presenter
	Feedback        FeedbackGenerator
	Observer        Observer
	Logger          *zap.Logger
	FeedbackTimeout time.Duration
}

// Controller owns one call session. Events must be delivered from a single
// goroutine; Snapshot may be called from anywhere.
type Controller struct {
	id      string
	machine *Machine
	opts    Options
	logger  *zap.Logger

	mu    sync.Mutex
	state State
}

func NewController(mode Mode, profile Profile, cfg Config, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	if opts.FeedbackTimeout <= 0 {
		opts.FeedbackTimeout = DefaultFeedbackTimeout
	}

	id := uuid.NewString()
	return &Controller{
		id:      id,
		machine: NewMachine(mode, profile, cfg),
		opts:    opts,
		logger: opts.Logger.With(
			zap.String("call_id", id),
			zap.String("mode", string(mode)),
			zap.String("user_id", profile.UserID),
		),
		state: State{Status: StatusInactive},
	}
}

func (c *Controller) ID() string { return c.id }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

func (c *Controller) StartCall(ctx context.Context) {
	c.Handle(ctx, Event{Kind: EventStartRequested})
}

func (c *Controller) StopCall(ctx context.Context) {
	c.Handle(ctx, Event{Kind: EventStopRequested})
}

// Handle applies one event and performs the resulting effects.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	c.mu.Lock()
	prev := c.state.Status
	next, effects := c.machine.Apply(c.state, ev)
	c.state = next
	snapshot := next.Snapshot()
	c.mu.Unlock()

	if prev != next.Status {
		c.logger.Info("call status changed",
			zap.String("event", string(ev.Kind)),
			zap.String("from", string(prev)),
			zap.String("to", string(next.Status)),
		)
		c.opts.Observer.CallTransition(c.machine.Mode(), prev, next.Status)
	}
	if c.opts.Presenter != nil {
		c.opts.Presenter.Render(snapshot)
	}

	for _, eff := range effects {
		c.perform(ctx, eff)
	}
}

func (c *Controller) perform(ctx context.Context, eff Effect) {
	switch eff.Kind {
	case EffectStartVoice:
		if c.opts.Voice == nil {
			c.Handle(ctx, Event{Kind: EventStartFailed, Err: "voice client unavailable"})
			return
		}
		if err := c.opts.Voice.Start(ctx, *eff.Start); err != nil {
			c.Handle(ctx, Event{Kind: EventStartFailed, Err: err})
		}

	case EffectStopVoice:
		if c.opts.Voice == nil {
			return
		}
		if err := c.opts.Voice.Stop(); err != nil {
			c.logger.Warn("failed to stop voice session", zap.Error(err))
		}

	case EffectNotify:
		c.logger.Warn("call notice",
			zap.String("kind", string(eff.Notice.Kind)),
			zap.String("message", eff.Notice.Message),
		)
		c.opts.Observer.CallNotice(c.machine.Mode(), eff.Notice.Kind)
		if c.opts.Presenter != nil {
			c.opts.Presenter.Notify(*eff.Notice)
		}

	case EffectNavigate:
		if c.opts.Presenter != nil {
			c.opts.Presenter.Navigate(eff.Path)
		}

	case EffectSubmitFeedback:
		c.Handle(ctx, Event{Kind: EventFeedbackDone, Feedback: c.submitFeedback(ctx, eff.Feedback)})
	}
}

// submitFeedback survives the caller going away: a closed socket must not
// lose the interview's feedback.
func (c *Controller) submitFeedback(ctx context.Context, req *interview.CreateFeedbackRequest) interview.CreateFeedbackResult {
	if c.opts.Feedback == nil {
		c.logger.Error("no feedback generator configured")
		return interview.CreateFeedbackResult{}
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FeedbackTimeout)
	defer cancel()

	res := c.opts.Feedback.CreateFeedback(fctx, req)
	if !res.Success {
		c.logger.Error("error saving feedback", zap.String("interview_id", req.InterviewID))
	} else {
		c.logger.Info("feedback saved",
			zap.String("interview_id", req.InterviewID),
			zap.String("feedback_id", res.FeedbackID),
			zap.Int("transcript_len", len(req.Transcript)),
		)
	}
	return res
}

type noopObserver struct{}

func (noopObserver) CallTransition(Mode, Status, Status) {}
func (noopObserver) CallNotice(Mode, xerrors.Kind)       {}
