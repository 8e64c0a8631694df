package room

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/blockshift/blockshift-server/internal/game"
	"github.com/blockshift/blockshift-server/pkg/types"
)

// Board size bounds for the periodic random resize.
const (
	minWidth  = 10
	maxWidth  = 16
	minHeight = 18
	maxHeight = 24
)

func randomPlayfield() game.Playfield {
	return game.Playfield{
		Width:  minWidth + rand.Intn(maxWidth-minWidth+1),
		Height: minHeight + rand.Intn(maxHeight-minHeight+1),
	}
}

// resizeLoop is one session's autonomous resize timer. It only sleeps and
// posts firings into the room inbox; drawing the new size and mutating the
// session happen on the room loop, serialized with clear claims. Firing is
// independent per session.
func (r *Room) resizeLoop(ctx context.Context, sessionID string) {
	for {
		delay := r.cfg.ResizeMin + time.Duration(rand.Int63n(int64(r.cfg.ResizeMax-r.cfg.ResizeMin)))
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		select {
		case <-ctx.Done():
			return
		case r.inbox <- resizeFired{SessionID: sessionID}:
		}
	}
}

// handleResize replaces the member's playfield with a fresh random size and
// notifies only that member. Score, combo and ranks are untouched. A firing
// that raced its own cancellation finds no member here and is discarded.
func (r *Room) handleResize(sessionID string) {
	mb, ok := r.byID[sessionID]
	if !ok {
		return
	}
	mb.session.Playfield = randomPlayfield()
	r.send(mb, types.Envelope{
		Type: types.MsgBoardResize,
		Payload: types.BoardResize{
			Width:  mb.session.Playfield.Width,
			Height: mb.session.Playfield.Height,
		},
	})
	r.log.Debug("board resized",
		zap.String("session", sessionID),
		zap.Int("width", mb.session.Playfield.Width),
		zap.Int("height", mb.session.Playfield.Height))
}
