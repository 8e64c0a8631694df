package room

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/blockshift/blockshift-server/internal/game"
	"github.com/blockshift/blockshift-server/pkg/types"
)

type Msg interface{ isRoomMsg() }

type Join struct {
	Session *game.Session
	Outbox  chan types.Envelope // where this member wants to receive events
	Reply   chan JoinResult
}

func (Join) isRoomMsg() {}

type Leave struct{ SessionID string }

func (Leave) isRoomMsg() {}

type ClearClaim struct {
	SessionID string
	Claim     game.ClearClaim
}

func (ClearClaim) isRoomMsg() {}

type UpdateProfile struct {
	SessionID string
	Update    game.ProfileUpdate
	Reply     chan bool // true when the update was applied
}

func (UpdateProfile) isRoomMsg() {}

// resizeFired is posted by a member's resize loop; the size draw and the
// dimension mutation happen on the room loop.
type resizeFired struct{ SessionID string }

func (resizeFired) isRoomMsg() {}

type GetState struct{ Reply chan View }

func (GetState) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type JoinResult struct {
	Players []types.PlayerInfo
}

// View is a test-only copy of room state, read without data races.
type View struct {
	NumMembers int
	Members    map[string]game.Session
}

// Config tunes the resize scheduler. Delays are drawn uniformly from
// [Min, Max) per firing.
type Config struct {
	ResizeMin time.Duration
	ResizeMax time.Duration
}

func (c Config) withDefaults() Config {
	if c.ResizeMin <= 0 {
		c.ResizeMin = 30 * time.Second
	}
	if c.ResizeMax <= c.ResizeMin {
		c.ResizeMax = c.ResizeMin + 20*time.Second
	}
	return c
}

type member struct {
	session      *game.Session
	outbox       chan types.Envelope
	cancelResize context.CancelFunc
}

// Room owns a set of sessions sharing garbage and rank visibility. A single
// loop goroutine serializes every membership change, score/combo update and
// dimension mutation, so each broadcast reflects one committed snapshot.
type Room struct {
	id      string
	inbox   chan Msg
	members []*member // join order; rank tie-break depends on it
	byID    map[string]*member
	count   atomic.Int64
	cfg     Config
	log     *zap.Logger
	onEmpty func(id string)
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts a room's loop goroutine. onEmpty, if non-nil, is called on the
// loop after the last member leaves.
func New(parent context.Context, id string, cfg Config, log *zap.Logger, onEmpty func(id string)) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		byID:    make(map[string]*member),
		cfg:     cfg.withDefaults(),
		log:     log.With(zap.String("room", id)),
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

// Inbox exposes the message channel to the ws layer, the hub and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// NumMembers is safe to call from any goroutine.
func (r *Room) NumMembers() int { return int(r.count.Load()) }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.handleLeave(msg.SessionID)
			case ClearClaim:
				r.handleClear(msg)
			case UpdateProfile:
				r.handleProfile(msg)
			case resizeFired:
				r.handleResize(msg.SessionID)
			case GetState:
				view := View{NumMembers: len(r.members), Members: make(map[string]game.Session, len(r.members))}
				for id, mb := range r.byID {
					view.Members[id] = *mb.session
				}
				msg.Reply <- view
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if mb, ok := r.byID[msg.Session.ID]; ok {
		// Rejoining the room you are already in is a no-op beyond
		// sending the current snapshot again, on the original outbox.
		r.send(mb, types.Envelope{
			Type:    types.MsgJoinAck,
			Payload: types.JoinAck{OK: true, Players: r.playerList()},
		})
		msg.Reply <- JoinResult{Players: r.playerList()}
		return
	}

	rctx, cancelResize := context.WithCancel(r.ctx)
	mb := &member{session: msg.Session, outbox: msg.Outbox, cancelResize: cancelResize}
	r.members = append(r.members, mb)
	r.byID[mb.session.ID] = mb
	r.count.Store(int64(len(r.members)))
	go r.resizeLoop(rctx, mb.session.ID)

	r.broadcastExcept(mb.session.ID, types.Envelope{
		Type: types.MsgMemberJoined,
		Payload: types.PlayerInfo{
			ID:      mb.session.ID,
			Profile: mb.session.Profile,
			Score:   mb.session.Score,
		},
	})
	// The ack is queued on the room loop ahead of the rank broadcast, so
	// the joiner always sees joinAck before its first ranksUpdated.
	r.send(mb, types.Envelope{
		Type:    types.MsgJoinAck,
		Payload: types.JoinAck{OK: true, Players: r.playerList()},
	})
	msg.Reply <- JoinResult{Players: r.playerList()}
	r.broadcastRanks()
	r.log.Info("member joined", zap.String("session", msg.Session.ID), zap.Int("members", len(r.members)))
}

// handleLeave is idempotent: leaving twice, or leaving after a slow-client
// drop, finds no member and does nothing.
func (r *Room) handleLeave(sessionID string) {
	mb, ok := r.byID[sessionID]
	if !ok {
		return
	}
	// Cancel the resize loop before removal so a firing can never land on
	// a session that is no longer a member. The outbox is never closed: a
	// removed member simply stops receiving events, and a stale rejoin of
	// the same channel cannot panic the loop.
	mb.cancelResize()
	delete(r.byID, sessionID)
	r.members = slices.DeleteFunc(r.members, func(x *member) bool { return x == mb })
	r.count.Store(int64(len(r.members)))

	r.broadcast(types.Envelope{Type: types.MsgMemberLeft, Payload: types.MemberLeft{ID: sessionID}})
	r.broadcastRanks()
	r.log.Info("member left", zap.String("session", sessionID), zap.Int("members", len(r.members)))

	if len(r.members) == 0 && r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

func (r *Room) handleClear(msg ClearClaim) {
	mb, ok := r.byID[msg.SessionID]
	if !ok {
		return
	}
	s := mb.session
	res := game.ApplyClear(*s, msg.Claim)
	s.Score = res.Score
	s.ComboCount = res.ComboCount
	s.BackToBack = res.BackToBack
	s.LastClearType = res.LastClearType

	// Notifications go out only after the mutation above has committed.
	if res.Garbage > 0 {
		r.broadcastExcept(s.ID, types.Envelope{
			Type:    types.MsgIncomingGarbage,
			Payload: types.IncomingGarbage{Lines: res.Garbage, From: s.ID},
		})
	}
	r.send(mb, types.Envelope{
		Type:    types.MsgComboEffect,
		Payload: types.ComboEffect{Combo: s.ComboCount, BackToBack: s.BackToBack},
	})
	r.broadcastRanks()
}

func (r *Room) handleProfile(msg UpdateProfile) {
	mb, ok := r.byID[msg.SessionID]
	if !ok {
		msg.Reply <- false
		return
	}
	mb.session.Profile.Apply(msg.Update)
	r.broadcastExcept(msg.SessionID, types.Envelope{
		Type:    types.MsgProfileUpdated,
		Payload: types.ProfileUpdated{ID: msg.SessionID, Profile: mb.session.Profile},
	})
	msg.Reply <- true
}

// broadcastRanks recomputes the room ranking and pushes the full ordered
// list to every member, whether or not their rank changed. Safe to call
// redundantly.
func (r *Room) broadcastRanks() {
	sessions := make([]*game.Session, len(r.members))
	for i, mb := range r.members {
		sessions[i] = mb.session
	}
	list := game.Ranks(sessions)
	r.broadcast(types.Envelope{Type: types.MsgRanksUpdated, Payload: list})
}

func (r *Room) playerList() []types.PlayerInfo {
	players := make([]types.PlayerInfo, 0, len(r.members))
	for _, mb := range r.members {
		players = append(players, types.PlayerInfo{
			ID:      mb.session.ID,
			Profile: mb.session.Profile,
			Score:   mb.session.Score,
		})
	}
	return players
}

func (r *Room) broadcast(ev types.Envelope) {
	var dropped []string
	for _, mb := range r.members {
		select {
		case mb.outbox <- ev:
			// ok
		default:
			dropped = append(dropped, mb.session.ID)
		}
	}
	r.dropSlow(dropped)
}

func (r *Room) broadcastExcept(sessionID string, ev types.Envelope) {
	var dropped []string
	for _, mb := range r.members {
		if mb.session.ID == sessionID {
			continue
		}
		select {
		case mb.outbox <- ev:
			// ok
		default:
			dropped = append(dropped, mb.session.ID)
		}
	}
	r.dropSlow(dropped)
}

func (r *Room) send(mb *member, ev types.Envelope) {
	select {
	case mb.outbox <- ev:
		// ok
	default:
		r.dropSlow([]string{mb.session.ID})
	}
}

// dropSlow removes members whose outbox is full. Each removal shrinks the
// membership, so the recursion through handleLeave terminates.
func (r *Room) dropSlow(ids []string) {
	for _, id := range ids {
		r.log.Warn("dropping slow client", zap.String("session", id))
		r.handleLeave(id)
	}
}

func (r *Room) shutdown() {
	for id, mb := range r.byID {
		mb.cancelResize()
		delete(r.byID, id)
	}
	r.members = nil
	r.count.Store(0)
	r.cancel()
}
