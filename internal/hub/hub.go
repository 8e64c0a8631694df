package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/blockshift/blockshift-server/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom creates the room if absent and replies with it. Replies nil
// for an empty code.
type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

// GetRoom replies with the room or nil.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// RemoveRoom evicts a room, but only if it is still empty: a join that
// raced the eviction keeps the room alive.
type RemoveRoom struct{ Code string }

type ListRooms struct {
	Reply chan []RoomInfo
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// RoomInfo is returned by the API for the room list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
}

// Hub is the registry mapping room codes to rooms. A single loop goroutine
// owns the map, so concurrent joins to the same code always get the same
// room.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	cfg    room.Config
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg room.Config, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if msg.Code == "" {
					msg.Reply <- nil
					break
				}
				msg.Reply <- h.ensure(msg.Code)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				rm := h.rooms[msg.Code]
				if rm == nil || rm.NumMembers() > 0 {
					break
				}
				delete(h.rooms, msg.Code)
				rm.Inbox() <- room.Shutdown{}
				h.log.Info("room evicted", zap.String("room", msg.Code))

			case ListRooms:
				infos := make([]RoomInfo, 0, len(h.rooms))
				for code, rm := range h.rooms {
					infos = append(infos, RoomInfo{Code: code, Players: rm.NumMembers()})
				}
				msg.Reply <- infos

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string) *room.Room {
	if rm := h.rooms[code]; rm != nil {
		return rm
	}
	rm := room.New(h.ctx, code, h.cfg, h.log, func(c string) {
		h.inbox <- RemoveRoom{Code: c}
	})
	h.rooms[code] = rm
	h.log.Info("room created", zap.String("room", code))
	return rm
}

func (h *Hub) shutdown() {
	for _, rm := range h.rooms {
		rm.Inbox() <- room.Shutdown{}
	}
	clear(h.rooms)
	h.cancel()
}
