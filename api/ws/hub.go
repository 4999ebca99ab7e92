package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/crownworks/kingdoms-server/cache"
	"github.com/crownworks/kingdoms-server/model"
	"go.uber.org/zap"
)

// EventsChannel is the pub/sub channel realtime events are mirrored to, so
// the SSE endpoint (and other server instances behind Redis) see the same
// stream the WebSocket clients do.
const EventsChannel = "events"

// Hub tracks connected sessions and fans events out to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	pubsub cache.PubSub
	logger *zap.Logger
}

// NewHub creates an empty Hub. pubsub may be nil in tests.
func NewHub(pubsub cache.PubSub, logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		pubsub:   pubsub,
		logger:   logger,
	}
}

// Register adds the session and announces the new presence count.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	n := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("viewer connected",
		zap.String("user_id", s.UserID),
		zap.Int("online", n))
	h.broadcastOnline(n)
}

// Unregister removes the session and announces the new presence count.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s.ID)
	n := len(h.sessions)
	h.mu.Unlock()

	s.Close()
	h.logger.Info("viewer disconnected",
		zap.String("user_id", s.UserID),
		zap.Int("online", n))
	left, _ := json.Marshal(map[string]string{"username": s.Username})
	h.Broadcast(&Packet{Type: "player_left", Payload: left})
	h.broadcastOnline(n)
}

// Online returns the number of connected sessions.
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends pkt to every connected session.
func (h *Hub) Broadcast(pkt *Packet) {
	data, err := json.Marshal(pkt)
	if err != nil {
		return
	}
	h.mu.RLock()
	for _, s := range h.sessions {
		s.SendRaw(data)
	}
	h.mu.RUnlock()
	h.mirror(data)
}

// BroadcastExcept sends pkt to every session except the one with the given
// session ID.
func (h *Hub) BroadcastExcept(exceptID string, pkt *Packet) {
	data, err := json.Marshal(pkt)
	if err != nil {
		return
	}
	h.mu.RLock()
	for id, s := range h.sessions {
		if id == exceptID {
			continue
		}
		s.SendRaw(data)
	}
	h.mu.RUnlock()
	h.mirror(data)
}

// BroadcastBattle pushes a resolved battle to every session.
func (h *Hub) BroadcastBattle(record *model.BattleRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	h.Broadcast(&Packet{Type: "battle", Payload: payload})
}

// BroadcastChat pushes a chat message to every session.
func (h *Hub) BroadcastChat(msg *model.ChatMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.Broadcast(&Packet{Type: "chat", Payload: payload})
}

func (h *Hub) broadcastOnline(online int) {
	payload, _ := json.Marshal(map[string]int{"online": online})
	h.Broadcast(&Packet{Type: "players_online", Payload: payload})
}

// mirror republishes an already-encoded packet on the events channel.
func (h *Hub) mirror(data []byte) {
	if h.pubsub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.pubsub.Publish(ctx, EventsChannel, string(data)); err != nil {
		h.logger.Debug("event mirror publish failed", zap.Error(err))
	}
}
