// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"

	wstypes "prepwise-service/internal/domain/websocket"
)

// MessageHandler consumes client messages for the event types it claims.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes each event type to exactly one handler.
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

// Register claims the handler's events. It panics when an event is already
// claimed or is one the client itself answers (ping), since either would
// silently reroute call events.
func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		if eventType == wstypes.EventTypePing {
			panic(fmt.Sprintf("websocket: event %q is reserved", eventType))
		}
		if _, taken := r.handlers[eventType]; taken {
			panic(fmt.Sprintf("websocket: event %q registered twice", eventType))
		}
		r.handlers[eventType] = handler
	}
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}
