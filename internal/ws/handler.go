package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blockshift/blockshift-server/internal/game"
	"github.com/blockshift/blockshift-server/internal/hub"
	"github.com/blockshift/blockshift-server/internal/room"
	"github.com/blockshift/blockshift-server/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler accepts one websocket connection per player session. The session
// is created on accept with default profile and board; a connection may
// join at most one room, and closing the connection is an implicit leave.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := &client{
			conn:    conn,
			session: game.NewSession(uuid.NewString()),
			outbox:  make(chan types.Envelope, 16),
			hub:     h,
		}
		c.log = log.With(zap.String("session", c.session.ID))
		c.log.Info("connected")
		defer c.log.Info("disconnected")

		// Disconnect for any reason is an implicit leave; the room side is
		// idempotent, so a racing slow-client drop is harmless.
		defer func() {
			if c.room != nil {
				c.room.Inbox() <- room.Leave{SessionID: c.session.ID}
			}
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go c.writer(writeCtx)

		c.read(r.Context())
	}
}

type client struct {
	conn    *websocket.Conn
	session *game.Session
	outbox  chan types.Envelope
	hub     *hub.Hub
	room    *room.Room // nil until joined; owned by the read loop
	log     *zap.Logger
}

// writer is the connection's only conn-writing goroutine. It drains room
// events and read-loop acks from the outbox and exits when the handler
// returns, whether or not the connection ever joined a room.
func (c *client) writer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.outbox:
			payload, _ := json.Marshal(ev)
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			_ = c.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
		}
	}
}

func (c *client) read(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			// Clean close, going-away and transport errors all end the
			// session the same way: via the deferred leave.
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			c.send(ctx, types.Envelope{Type: types.MsgError, Payload: types.ErrorPayload{Error: types.ErrCodeBadJSON}})
			continue
		}

		switch cm.Type {
		case types.MsgJoinRoom:
			c.handleJoin(ctx, cm)
		case types.MsgUpdateProfile:
			c.handleProfile(ctx, cm)
		case types.MsgLineClear:
			// Fire-and-forget; claims before a join have nobody to pay out
			// to and are dropped.
			if c.room == nil {
				continue
			}
			c.room.Inbox() <- room.ClearClaim{
				SessionID: c.session.ID,
				Claim:     game.ClearClaim{Type: game.ClearType(cm.ClearType), Lines: cm.Lines},
			}
		default:
			c.send(ctx, types.Envelope{Type: types.MsgError, Payload: types.ErrorPayload{Error: types.ErrCodeUnknownType}})
		}
	}
}

// handleJoin forwards the join to the room, which queues the joinAck on the
// outbox itself so the ack always precedes the first ranksUpdated.
func (c *client) handleJoin(ctx context.Context, cm types.ClientMessage) {
	if cm.RoomID == "" {
		c.log.Warn("join with empty room id")
		c.send(ctx, joinErr(types.ErrCodeInvalidRoom))
		return
	}
	if c.room != nil && c.room.ID() != cm.RoomID {
		c.send(ctx, joinErr(types.ErrCodeAlreadyInRoom))
		return
	}

	rm := c.room
	if rm == nil {
		reply := make(chan *room.Room, 1)
		c.hub.Inbox() <- hub.EnsureRoom{Code: cm.RoomID, Reply: reply}
		rm = <-reply
		if rm == nil {
			c.send(ctx, joinErr(types.ErrCodeInvalidRoom))
			return
		}
	}

	jr := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Session: c.session, Outbox: c.outbox, Reply: jr}
	select {
	case <-jr:
		c.room = rm
		c.log.Info("joined room", zap.String("room", cm.RoomID))
	case <-ctx.Done():
	}
}

func (c *client) handleProfile(ctx context.Context, cm types.ClientMessage) {
	var update game.ProfileUpdate
	if cm.Profile == nil || json.Unmarshal(cm.Profile, &update) != nil {
		c.log.Warn("malformed profile update")
		c.send(ctx, types.Envelope{Type: types.MsgProfileAck, Payload: types.ProfileAck{Error: types.ErrCodeBadProfile}})
		return
	}

	if c.room == nil {
		// Not joined yet: the read loop is the session's only owner.
		c.session.Profile.Apply(update)
		c.send(ctx, types.Envelope{Type: types.MsgProfileAck, Payload: types.ProfileAck{OK: true}})
		return
	}

	reply := make(chan bool, 1)
	c.room.Inbox() <- room.UpdateProfile{SessionID: c.session.ID, Update: update, Reply: reply}
	select {
	case ok := <-reply:
		ack := types.ProfileAck{OK: ok}
		if !ok {
			ack.Error = types.ErrCodeBadProfile
		}
		c.send(ctx, types.Envelope{Type: types.MsgProfileAck, Payload: ack})
	case <-ctx.Done():
	}
}

// send queues an event for the writer, keeping all conn writes on one
// goroutine and acks ordered against room events.
func (c *client) send(ctx context.Context, ev types.Envelope) {
	select {
	case c.outbox <- ev:
	case <-ctx.Done():
	}
}

func joinErr(code string) types.Envelope {
	return types.Envelope{Type: types.MsgJoinAck, Payload: types.JoinAck{Error: code}}
}
