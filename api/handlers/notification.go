package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// NotificationHub delivers the engine's prompts, retractions, notices and
// platform actions over websockets. Reporter threads, moderator surfaces
// and the platform's action executor all connect as clients keyed by
// surface id; the hub is the repo's NotificationSink implementation.
type NotificationHub struct {
	clients map[string]*surfaceConn
	prompts map[flow.PromptHandle]string // handle -> surface id it was rendered on
	mutex   sync.Mutex
}

// surfaceConn pairs a connection with its write lock. Sessions lock
// independently, so sends for different reports can race on a shared
// surface, and gorilla/websocket supports only one concurrent writer.
type surfaceConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewNotificationHub returns an empty hub.
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*surfaceConn),
		prompts: make(map[flow.PromptHandle]string),
	}
}

// HandleNotificationsWebSocket registers a surface connection. Reporter
// threads connect with surface=<reporter id>, moderator surfaces and the
// platform action executor with their configured ids.
func (h *NotificationHub) HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	surfaceID := r.URL.Query().Get("surface")
	if surfaceID == "" {
		conn.Close()
		return
	}

	// Register client
	client := &surfaceConn{conn: conn}
	h.mutex.Lock()
	h.clients[surfaceID] = client
	h.mutex.Unlock()
	zap.S().Infow("surface connected to /ws/notifications", "surface", surfaceID)

	// Handle disconnect
	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		if h.clients[surfaceID] == client {
			delete(h.clients, surfaceID)
		}
		h.mutex.Unlock()
		zap.S().Infow("surface disconnected from /ws/notifications", "surface", surfaceID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

func (h *NotificationHub) send(surfaceID string, event string, data interface{}) error {
	h.mutex.Lock()
	client, exists := h.clients[surfaceID]
	h.mutex.Unlock()

	if !exists {
		return fmt.Errorf("surface %s is not connected", surfaceID)
	}

	// One writer per connection; the hub mutex only guards the maps so a
	// slow surface cannot stall the rest of the hub.
	client.writeMu.Lock()
	err := client.conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	client.writeMu.Unlock()
	if err != nil {
		h.mutex.Lock()
		if h.clients[surfaceID] == client {
			delete(h.clients, surfaceID)
		}
		h.mutex.Unlock()
		client.conn.Close()
		return err
	}
	return nil
}

// RenderPrompt pushes an interactive prompt to the target surface and
// returns the handle a later Retract refers to.
func (h *NotificationHub) RenderPrompt(ctx context.Context, target flow.Target, spec flow.PromptSpec) (flow.PromptHandle, error) {
	handle := flow.PromptHandle(uuid.NewString())
	if err := h.send(target.ID, "prompt", map[string]interface{}{
		"handle":  string(handle),
		"title":   spec.Title,
		"body":    spec.Body,
		"options": spec.Options,
	}); err != nil {
		return "", err
	}
	h.mutex.Lock()
	h.prompts[handle] = target.ID
	h.mutex.Unlock()
	return handle, nil
}

// Retract tells the surface that rendered a prompt to delete or disable it.
func (h *NotificationHub) Retract(ctx context.Context, handle flow.PromptHandle) error {
	h.mutex.Lock()
	surfaceID, ok := h.prompts[handle]
	delete(h.prompts, handle)
	h.mutex.Unlock()
	if !ok {
		return fmt.Errorf("unknown prompt handle %s", handle)
	}
	return h.send(surfaceID, "retract", map[string]interface{}{
		"handle": string(handle),
	})
}

// Notify delivers rendered text to a surface.
func (h *NotificationHub) Notify(ctx context.Context, target flow.Target, content string) error {
	return h.send(target.ID, "notice", map[string]interface{}{
		"content": content,
	})
}

// ApplyMessageAction asks the platform executor for the message's community
// to carry out the sanction. Delivery failure surfaces as the engine's
// action-failure warning.
func (h *NotificationHub) ApplyMessageAction(ctx context.Context, msg models.TargetMessage, action models.MessageAction) error {
	return h.send(platformSurface(msg.CommunityID), "message_action", map[string]interface{}{
		"messageId": msg.MessageID,
		"channelId": msg.ChannelID,
		"action":    string(action),
	})
}

// ApplyUserAction asks the platform executor to sanction the reported user.
func (h *NotificationHub) ApplyUserAction(ctx context.Context, msg models.TargetMessage, action models.UserAction) error {
	return h.send(platformSurface(msg.CommunityID), "user_action", map[string]interface{}{
		"userId": msg.AuthorID,
		"action": string(action),
	})
}

// platformSurface is the well-known surface id the platform's action
// executor for a community listens on.
func platformSurface(communityID string) string {
	return "platform:" + communityID
}
