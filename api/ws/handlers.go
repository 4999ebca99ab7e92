package ws

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/crownworks/kingdoms-server/game/kingdom"
)

const maxChatLen = 500

// Handlers binds the realtime message handlers to the hub and the registry.
type Handlers struct {
	hub *Hub
	reg *kingdom.Registry
}

func NewHandlers(hub *Hub, reg *kingdom.Registry) *Handlers {
	return &Handlers{hub: hub, reg: reg}
}

// RegisterRoutes wires every inbound message type into the router.
func (h *Handlers) RegisterRoutes(r *Router) {
	r.On("join", h.handleJoin)
	r.On("chat", h.handleChat)
	r.On("move_army", h.handleMoveArmy)
}

// handleJoin replies to the joiner with the retained chat log and the current
// presence count, and announces the join to every connection, the joiner
// included.
func (h *Handlers) handleJoin(_ context.Context, s *Session, _ json.RawMessage) error {
	payload, err := json.Marshal(map[string]interface{}{
		"chat":   h.reg.ChatHistory(),
		"online": h.hub.Online(),
	})
	if err != nil {
		return err
	}
	s.Send(&Packet{Type: "joined", Payload: payload})

	announce, _ := json.Marshal(map[string]string{"username": s.Username})
	h.hub.Broadcast(&Packet{Type: "player_joined", Payload: announce})
	return nil
}

type chatPayload struct {
	Text string `json:"text"`
}

// handleChat persists the message to the world chat log, then fans it out to
// every session including the sender.
func (h *Handlers) handleChat(_ context.Context, s *Session, payload json.RawMessage) error {
	var req chatPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return errors.New("empty chat message")
	}
	if len(text) > maxChatLen {
		text = text[:maxChatLen]
	}

	msg, err := h.reg.AppendChat(s.Username, text)
	if err != nil {
		return err
	}
	h.hub.BroadcastChat(msg)
	return nil
}

type movePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// handleMoveArmy relays an army movement preview to every other session. The
// movement is cosmetic and is not persisted.
func (h *Handlers) handleMoveArmy(_ context.Context, s *Session, payload json.RawMessage) error {
	var req movePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	out, err := json.Marshal(map[string]interface{}{
		"userId":   s.UserID,
		"username": s.Username,
		"x":        req.X,
		"y":        req.Y,
	})
	if err != nil {
		return err
	}
	h.hub.BroadcastExcept(s.ID, &Packet{Type: "move_army", Payload: out})
	return nil
}
