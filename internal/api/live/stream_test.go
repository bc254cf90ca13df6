package live

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitEvent(t *testing.T, ch <-chan StreamEvent) StreamEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return StreamEvent{}
}

func TestHubDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(testLogger())
	go h.Run(ctx)

	ch, replay, unsub := h.Subscribe()
	defer unsub()
	if len(replay) != 0 {
		t.Fatalf("expected empty replay, got %d events", len(replay))
	}

	h.Broadcast(StreamEvent{Type: "minute", Minute: "FIRST_HALF 12'"})
	ev := waitEvent(t, ch)
	if ev.Type != "minute" || ev.Minute != "FIRST_HALF 12'" {
		t.Fatalf("expected minute 12 event, got %+v", ev)
	}
}

func TestHubReplaysHistoryToLateSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(testLogger())
	go h.Run(ctx)

	early, _, earlyDone := h.Subscribe()
	defer earlyDone()
	h.Broadcast(StreamEvent{Type: "minute", Minute: "FIRST_HALF 1'"})
	h.Broadcast(StreamEvent{Type: "minute", Minute: "FIRST_HALF 2'"})
	waitEvent(t, early)
	waitEvent(t, early)

	_, replay, done := h.Subscribe()
	defer done()
	if len(replay) != 2 {
		t.Fatalf("expected 2 replayed events, got %d", len(replay))
	}
	if replay[0].Minute != "FIRST_HALF 1'" || replay[1].Minute != "FIRST_HALF 2'" {
		t.Fatalf("replay out of order: %+v", replay)
	}
}

func TestHubShutdownClosesSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(testLogger())
	go h.Run(ctx)

	ch, _, done := h.Subscribe()
	defer done()

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel, got event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel not closed on shutdown")
	}

	// Late subscribers after shutdown get a closed channel immediately.
	lateCh, _, lateDone := h.Subscribe()
	defer lateDone()
	if _, ok := <-lateCh; ok {
		t.Fatal("expected closed channel for post-shutdown subscriber")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(testLogger())
	go h.Run(ctx)

	ch, _, done := h.Subscribe()
	done()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after unsubscribe")
	}

	// Broadcasting after unsubscribe must not panic on the closed channel.
	h.Broadcast(StreamEvent{Type: "minute", Minute: "FIRST_HALF 3'"})
}
