package websocket

import (
	"context"
	"testing"

	wstypes "prepwise-service/internal/domain/websocket"
)

type stubHandler struct{ events []wstypes.EventType }

func (s stubHandler) HandleMessage(context.Context, *Client, *wstypes.WSMessage) error { return nil }
func (s stubHandler) SupportedEvents() []wstypes.EventType                             { return s.events }

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
}

func TestHandlerRegistryRoutesClaimedEvents(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register(stubHandler{events: []wstypes.EventType{wstypes.EventTypeCallStart, wstypes.EventTypeCallEnd}})

	if _, ok := r.GetHandler(wstypes.EventTypeCallEnd); !ok {
		t.Fatalf("GetHandler(call-end) not found")
	}
	if _, ok := r.GetHandler(wstypes.EventTypeMessage); ok {
		t.Fatalf("GetHandler(message) found, want none")
	}
}

func TestHandlerRegistryRejectsConflicts(t *testing.T) {
	r := NewHandlerRegistry()
	r.Register(stubHandler{events: []wstypes.EventType{wstypes.EventTypeCallStart}})

	mustPanic(t, func() {
		r.Register(stubHandler{events: []wstypes.EventType{wstypes.EventTypeCallStart}})
	})
	mustPanic(t, func() {
		r.Register(stubHandler{events: []wstypes.EventType{wstypes.EventTypePing}})
	})
}
