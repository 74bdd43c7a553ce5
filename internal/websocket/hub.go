// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "prepwise-service/internal/domain/websocket"
	"prepwise-service/internal/pkg/token"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	verifier *token.Verifier
	logger   *zap.Logger
}

func NewHub(verifier *token.Verifier, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		done:            make(chan struct{}),
		handlerRegistry: NewHandlerRegistry(),
		verifier:        verifier,
		logger:          logger,
	}
}

// AuthenticateClient validates the session token presented on upgrade.
func (h *Hub) AuthenticateClient(ctx context.Context, raw string) (*ClientAuth, error) {
	if raw == "" {
		return nil, ErrUnauthorized
	}
	payload, err := h.verifier.Verify(raw)
	if err != nil {
		return nil, err
	}
	return &ClientAuth{UserID: payload.UserID, Email: payload.Email}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage dispatches msg to its registered handler. It reports
// false when no handler supports the message type.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info("client connected",
		zap.String("user_id", client.userID),
		zap.Int("total", h.totalClients()),
	)

	data := map[string]interface{}{
		"user_id": client.userID,
		"email":   client.email,
	}
	if ctrl, ok := client.Call(); ok {
		data["call_id"] = ctrl.ID()
		data["web_token"] = client.webToken
	}
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, data))
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			h.logger.Info("client disconnected",
				zap.String("user_id", client.userID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) GetConnectedClients(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID string) bool {
	return h.GetConnectedClients(userID) > 0
}

// DisconnectUser forcefully disconnects all connections for a user
func (h *Hub) DisconnectUser(userID string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}

	disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
		"reason": reason,
	})
	for client := range clients {
		client.SendMessage(disconnectMsg)
		client.Close()
	}

	delete(h.clients, userID)
	h.logger.Info("disconnected all clients for user",
		zap.String("user_id", userID),
		zap.String("reason", reason),
	)
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
