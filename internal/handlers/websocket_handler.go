package handlers

import (
	"errors"
	"log"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/relaychat-io/relaychat-backend/internal/apperr"
	"github.com/relaychat-io/relaychat-backend/internal/handlers/ws"
	"github.com/relaychat-io/relaychat-backend/internal/service"
)

type WebSocketHandler struct {
	userService    *service.UserService
	messageService *service.MessageService
	groupService   *service.GroupService
	hub            *ws.Hub
}

func NewWebSocketHandler(userService *service.UserService, messageService *service.MessageService, groupService *service.GroupService) *WebSocketHandler {
	return &WebSocketHandler{
		userService:    userService,
		messageService: messageService,
		groupService:   groupService,
		hub:            ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for connection accounting)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// HandleConnection runs the per-connection loop: read one frame, dispatch,
// write exactly one reply, repeat. Every decode, validation or handler
// failure is answered in-band and keeps the connection open; only a
// transport-level read error ends the loop.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	connID := uuid.NewString()
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	h.hub.Register(connID, c)
	defer h.hub.Unregister(connID)

	ctx := &ws.ActionContext{
		ConnID:         connID,
		UserService:    h.userService,
		MessageService: h.messageService,
		GroupService:   h.groupService,
	}

	for {
		_, frame, err := c.ReadMessage()
		if err != nil {
			break
		}

		if wsDebug {
			log.Printf("ws_recv conn=%s size=%d", connID, len(frame))
		}

		action, err := ws.Decode(frame)
		if err != nil {
			h.writeReply(c, connID, ws.ErrorReply(err.Error()))
			continue
		}

		if err := action.Validate(); err != nil {
			h.writeReply(c, connID, ws.ErrorReply(err.Error()))
			continue
		}

		payload, err := action.Handle(ctx)
		if err != nil {
			h.writeReply(c, connID, errorPayload(connID, action.Name(), err))
			continue
		}
		h.writeReply(c, connID, payload)
	}
}

// errorPayload maps a handler error onto a wire reply. Taxonomy errors carry
// their own message; anything else is a store-level failure that gets logged
// and surfaced generically so the handler task survives.
func errorPayload(connID, actionName string, err error) ws.StatusReply {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return ws.ErrorReply(appErr.Message)
	}
	log.Printf("Connection %s: action %s failed: %v", connID, actionName, err)
	return ws.ErrorReply("Internal server error.")
}

func (h *WebSocketHandler) writeReply(c *websocket.Conn, connID string, payload interface{}) {
	if err := c.WriteJSON(payload); err != nil {
		log.Printf("Connection %s: failed to write reply: %v", connID, err)
	}
}
