// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of a relay message
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// User actions (client -> server)
	EventTypeRequestStart EventType = "call:request_start"
	EventTypeRequestStop  EventType = "call:request_stop"
	EventTypeStartFailed  EventType = "call:start_failed"

	// Voice SDK events forwarded by the client (client -> server).
	// The SDK "error" event arrives as EventTypeError.
	EventTypeCallStart   EventType = "call-start"
	EventTypeCallEnd     EventType = "call-end"
	EventTypeMessage     EventType = "message"
	EventTypeSpeechStart EventType = "speech-start"
	EventTypeSpeechEnd   EventType = "speech-end"

	// Commands and state (server -> client)
	EventTypeStartCommand EventType = "call:start"
	EventTypeStopCommand  EventType = "call:stop"
	EventTypeState        EventType = "call:state"
	EventTypeNotice       EventType = "call:notice"
	EventTypeNavigate     EventType = "call:navigate"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	ID        string          `json:"id,omitempty"`
}

// TranscriptMessage is the payload of a voice SDK "message" event.
type TranscriptMessage struct {
	Type           string `json:"type"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Role           string `json:"role,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
}

// StartCommand instructs the client to start the voice SDK.
type StartCommand struct {
	AssistantID    string            `json:"assistantId,omitempty"`
	Assistant      any               `json:"assistant,omitempty"`
	VariableValues map[string]string `json:"variableValues"`
}

// StateData mirrors the call session for rendering.
type StateData struct {
	Status          string `json:"status"`
	IsSpeaking      bool   `json:"isSpeaking"`
	LastUtterance   string `json:"lastUtterance"`
	TranscriptCount int    `json:"transcriptCount"`
}

// NoticeData is a user-visible notification.
type NoticeData struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NavigateData tells the client where to go next.
type NavigateData struct {
	Path string `json:"path"`
}

// ErrorData for error messages
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewMessage creates a new WebSocket message
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	msg := &WSMessage{
		Type:      eventType,
		Timestamp: time.Now(),
	}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			msg.Data = raw
		}
	}
	return msg
}

// ToJSON converts message to JSON bytes
func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses JSON bytes into WSMessage
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message type is required")
	}
	return &msg, nil
}

// DecodeData unmarshals the message payload into target.
func (m *WSMessage) DecodeData(target interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("message %q has no data", m.Type)
	}
	return json.Unmarshal(m.Data, target)
}
