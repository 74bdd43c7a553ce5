// internal/websocket/handler/call.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"prepwise-service/internal/call"
	wstypes "prepwise-service/internal/domain/websocket"
	ws "prepwise-service/internal/websocket"
)

// CallHandler feeds user actions and forwarded voice SDK events into the
// call session attached to the connection.
type CallHandler struct{}

func NewCallHandler() *CallHandler {
	return &CallHandler{}
}

// SupportedEvents returns events this handler supports
func (h *CallHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeRequestStart,
		wstypes.EventTypeRequestStop,
		wstypes.EventTypeStartFailed,
		wstypes.EventTypeCallStart,
		wstypes.EventTypeCallEnd,
		wstypes.EventTypeMessage,
		wstypes.EventTypeSpeechStart,
		wstypes.EventTypeSpeechEnd,
		wstypes.EventTypeError,
	}
}

// HandleMessage processes call-related messages
func (h *CallHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	ctrl, ok := client.Call()
	if !ok {
		return ws.ErrNoCallSession
	}

	switch msg.Type {
	case wstypes.EventTypeRequestStart:
		ctrl.StartCall(ctx)
		return nil
	case wstypes.EventTypeRequestStop:
		ctrl.StopCall(ctx)
		return nil
	}

	ev, err := ToEvent(msg)
	if err != nil {
		return err
	}
	ctrl.Handle(ctx, ev)
	return nil
}

// ToEvent converts a forwarded SDK message into a call event.
func ToEvent(msg *wstypes.WSMessage) (call.Event, error) {
	switch msg.Type {
	case wstypes.EventTypeCallStart:
		return call.Event{Kind: call.EventCallStart}, nil
	case wstypes.EventTypeCallEnd:
		return call.Event{Kind: call.EventCallEnd}, nil
	case wstypes.EventTypeSpeechStart:
		return call.Event{Kind: call.EventSpeechStart}, nil
	case wstypes.EventTypeSpeechEnd:
		return call.Event{Kind: call.EventSpeechEnd}, nil

	case wstypes.EventTypeMessage:
		var m wstypes.TranscriptMessage
		if err := msg.DecodeData(&m); err != nil {
			return call.Event{}, fmt.Errorf("invalid message payload: %w", err)
		}
		return call.Event{Kind: call.EventMessage, Message: &call.TranscriptMessage{
			Type:           m.Type,
			TranscriptType: m.TranscriptType,
			Role:           m.Role,
			Transcript:     m.Transcript,
		}}, nil

	case wstypes.EventTypeError, wstypes.EventTypeStartFailed:
		kind := call.EventError
		if msg.Type == wstypes.EventTypeStartFailed {
			kind = call.EventStartFailed
		}
		// SDK errors have no fixed shape; keep the raw payload for Describe.
		var payload any = json.RawMessage(msg.Data)
		if len(msg.Data) == 0 {
			payload = nil
		}
		return call.Event{Kind: kind, Err: payload}, nil
	}
	return call.Event{}, fmt.Errorf("unsupported event type: %s", msg.Type)
}
