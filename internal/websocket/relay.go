// internal/websocket/relay.go
package websocket

import (
	"context"

	"prepwise-service/internal/call"
	wstypes "prepwise-service/internal/domain/websocket"
)

// Relay is the server side of a browser-hosted voice SDK. It satisfies both
// call.VoiceClient and call.Presenter by turning them into outbound messages.
type Relay struct {
	client *Client
}

func NewRelay(client *Client) *Relay {
	return &Relay{client: client}
}

// Start asks the browser to start the SDK. Failures of the SDK itself come
// back later as a call:start_failed message.
func (r *Relay) Start(_ context.Context, req call.StartRequest) error {
	cmd := wstypes.StartCommand{
		AssistantID:    req.AssistantID,
		VariableValues: req.VariableValues,
	}
	if req.Assistant != nil {
		cmd.Assistant = req.Assistant
	}
	return r.client.SendMessage(wstypes.NewMessage(wstypes.EventTypeStartCommand, cmd))
}

func (r *Relay) Stop() error {
	return r.client.SendMessage(wstypes.NewMessage(wstypes.EventTypeStopCommand, nil))
}

func (r *Relay) Render(state call.State) {
	r.client.SendMessage(wstypes.NewMessage(wstypes.EventTypeState, wstypes.StateData{
		Status:          string(state.Status),
		IsSpeaking:      state.IsSpeaking,
		LastUtterance:   state.LastUtterance,
		TranscriptCount: len(state.Transcript),
	}))
}

func (r *Relay) Notify(notice call.Notice) {
	r.client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotice, wstypes.NoticeData{
		Kind:    string(notice.Kind),
		Message: notice.Message,
	}))
}

func (r *Relay) Navigate(path string) {
	r.client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNavigate, wstypes.NavigateData{Path: path}))
}
