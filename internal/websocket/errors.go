// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNoCallSession = errors.New("no call session attached to connection")
	ErrClientClosed  = errors.New("connection closed")
)
