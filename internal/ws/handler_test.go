package ws

import (
	"context"
	"testing"
	"time"

	"github.com/blockshift/blockshift-server/internal/game"
	"github.com/blockshift/blockshift-server/pkg/types"
)

// The writer must exit when the handler returns, even for a connection
// that never joined a room and whose outbox is therefore never drained by
// anyone else.
func TestWriter_ExitsOnContextCancel(t *testing.T) {
	c := &client{
		session: game.NewSession("aaaa"),
		outbox:  make(chan types.Envelope, 16),
	}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.writer(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("writer still running after handler teardown")
	}
}

func TestSend_GivesUpWhenConnectionIsGone(t *testing.T) {
	c := &client{
		session: game.NewSession("aaaa"),
		outbox:  make(chan types.Envelope), // nobody draining
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.send(ctx, types.Envelope{Type: types.MsgError, Payload: types.ErrorPayload{Error: types.ErrCodeBadJSON}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("send blocked forever on a dead connection")
	}
}
