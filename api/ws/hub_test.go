package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/crownworks/kingdoms-server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStubSession builds a session without a connection or write pump; packets
// accumulate in SendChan.
func newStubSession(id, userID, username string) *Session {
	return &Session{
		ID:       id,
		UserID:   userID,
		Username: username,
		SendChan: make(chan []byte, sendChanBuf),
		Done:     make(chan struct{}),
		logger:   zap.NewNop(),
	}
}

func drain(s *Session) []Packet {
	var out []Packet
	for {
		select {
		case data := <-s.SendChan:
			var pkt Packet
			if err := json.Unmarshal(data, &pkt); err == nil {
				out = append(out, pkt)
			}
		default:
			return out
		}
	}
}

func lastOfType(pkts []Packet, typ string) (Packet, bool) {
	for i := len(pkts) - 1; i >= 0; i-- {
		if pkts[i].Type == typ {
			return pkts[i], true
		}
	}
	return Packet{}, false
}

func TestHubPresence(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	a := newStubSession("s1", "u1", "Ava")
	b := newStubSession("s2", "u2", "Brom")

	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.Online())

	pkt, ok := lastOfType(drain(a), "players_online")
	require.True(t, ok)
	var presence map[string]int
	require.NoError(t, json.Unmarshal(pkt.Payload, &presence))
	assert.Equal(t, 2, presence["online"])

	hub.Unregister(b)
	assert.Equal(t, 1, hub.Online())
	pkts := drain(a)
	pkt, ok = lastOfType(pkts, "players_online")
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(pkt.Payload, &presence))
	assert.Equal(t, 1, presence["online"])

	// The departing viewer is named.
	pkt, ok = lastOfType(pkts, "player_left")
	require.True(t, ok)
	var left map[string]string
	require.NoError(t, json.Unmarshal(pkt.Payload, &left))
	assert.Equal(t, "Brom", left["username"])

	// Double unregister is a no-op.
	hub.Unregister(b)
	assert.Equal(t, 1, hub.Online())
}

func TestHubBroadcastExcept(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	a := newStubSession("s1", "u1", "Ava")
	b := newStubSession("s2", "u2", "Brom")
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	hub.BroadcastExcept("s1", &Packet{Type: "move_army"})

	_, got := lastOfType(drain(a), "move_army")
	assert.False(t, got)
	_, got = lastOfType(drain(b), "move_army")
	assert.True(t, got)
}

func TestHubMirrorsToPubSub(t *testing.T) {
	_, pubsub := testutil.SetupTestCache(t)
	hub := NewHub(pubsub, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgCh, unsub, err := pubsub.Subscribe(ctx, EventsChannel)
	require.NoError(t, err)
	defer unsub()

	hub.Broadcast(&Packet{Type: "chat"})

	select {
	case msg := <-msgCh:
		var pkt Packet
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &pkt))
		assert.Equal(t, "chat", pkt.Type)
	case <-time.After(time.Second):
		t.Fatal("no mirrored event received")
	}
}

func TestHandleChat(t *testing.T) {
	reg, _ := testutil.SetupTestRegistry(t)
	hub := NewHub(nil, zap.NewNop())
	h := NewHandlers(hub, reg)

	a := newStubSession("s1", "u1", "Ava")
	b := newStubSession("s2", "u2", "Brom")
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	payload, _ := json.Marshal(map[string]string{"text": "  hello world  "})
	require.NoError(t, h.handleChat(context.Background(), a, payload))

	// Both sides receive the message, sender included.
	for _, s := range []*Session{a, b} {
		pkt, ok := lastOfType(drain(s), "chat")
		require.True(t, ok)
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(pkt.Payload, &msg))
		assert.Equal(t, "Ava", msg["sender"])
		assert.Equal(t, "hello world", msg["text"])
	}

	// Message is persisted to the world chat log.
	history := reg.ChatHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "hello world", history[0].Text)

	// Blank messages are rejected.
	payload, _ = json.Marshal(map[string]string{"text": "   "})
	assert.Error(t, h.handleChat(context.Background(), a, payload))
}

func TestHandleJoin(t *testing.T) {
	reg, _ := testutil.SetupTestRegistry(t)
	_, err := reg.AppendChat("Ava", "earlier message")
	require.NoError(t, err)

	hub := NewHub(nil, zap.NewNop())
	h := NewHandlers(hub, reg)

	a := newStubSession("s1", "u1", "Ava")
	b := newStubSession("s2", "u2", "Brom")
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	require.NoError(t, h.handleJoin(context.Background(), b, nil))

	bPkts := drain(b)
	pkt, ok := lastOfType(bPkts, "joined")
	require.True(t, ok)
	var joined struct {
		Chat   []map[string]interface{} `json:"chat"`
		Online int                      `json:"online"`
	}
	require.NoError(t, json.Unmarshal(pkt.Payload, &joined))
	assert.Equal(t, 2, joined.Online)
	require.Len(t, joined.Chat, 1)

	// The join notice goes to every connection, the joiner included.
	var announce map[string]string
	pkt, ok = lastOfType(drain(a), "player_joined")
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(pkt.Payload, &announce))
	assert.Equal(t, "Brom", announce["username"])

	pkt, ok = lastOfType(bPkts, "player_joined")
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(pkt.Payload, &announce))
	assert.Equal(t, "Brom", announce["username"])
}

func TestHandleMoveArmy(t *testing.T) {
	reg, _ := testutil.SetupTestRegistry(t)
	hub := NewHub(nil, zap.NewNop())
	h := NewHandlers(hub, reg)

	a := newStubSession("s1", "u1", "Ava")
	b := newStubSession("s2", "u2", "Brom")
	hub.Register(a)
	hub.Register(b)
	drain(a)
	drain(b)

	payload, _ := json.Marshal(map[string]int{"x": 12, "y": 34})
	require.NoError(t, h.handleMoveArmy(context.Background(), a, payload))

	// The sender does not get its own movement echoed back.
	_, got := lastOfType(drain(a), "move_army")
	assert.False(t, got)

	pkt, ok := lastOfType(drain(b), "move_army")
	require.True(t, ok)
	var move map[string]interface{}
	require.NoError(t, json.Unmarshal(pkt.Payload, &move))
	assert.Equal(t, "Ava", move["username"])
	assert.Equal(t, float64(12), move["x"])
	assert.Equal(t, float64(34), move["y"])
}

func TestRouterDispatch(t *testing.T) {
	router := NewRouter(zap.NewNop())
	s := newStubSession("s1", "u1", "Ava")

	var calls int
	router.On("ping", func(ctx context.Context, sess *Session, payload json.RawMessage) error {
		calls++
		assert.NotEmpty(t, TraceIDFromCtx(ctx))
		return nil
	})

	router.Dispatch(s, []byte(`{"type":"ping","seq":1}`))
	assert.Equal(t, 1, calls)

	// Replayed seq is dropped.
	router.Dispatch(s, []byte(`{"type":"ping","seq":1}`))
	assert.Equal(t, 1, calls)

	// Higher seq goes through; seq 0 is untracked and always goes through.
	router.Dispatch(s, []byte(`{"type":"ping","seq":2}`))
	router.Dispatch(s, []byte(`{"type":"ping"}`))
	assert.Equal(t, 3, calls)

	// Malformed JSON and unknown types are dropped without panicking.
	router.Dispatch(s, []byte(`{not json`))
	router.Dispatch(s, []byte(`{"type":"unknown"}`))
	assert.Equal(t, 3, calls)
}
