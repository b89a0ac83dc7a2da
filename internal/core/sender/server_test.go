package sender

import (
	"context"
	"testing"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/tournament"
)

func TestTrySendSucceedsWhileInboxHasRoom(t *testing.T) {
	s := NewServer()
	if err := s.TrySend(NewSnapshotMessage(tournament.GameSnapshot{}, false, 0)); err != nil {
		t.Fatalf("TrySend into a fresh server: %v", err)
	}
}

func TestTrySendReturnsErrorWhenInboxIsFull(t *testing.T) {
	s := NewServer()
	// Fill the inbox without a Run loop draining it.
	for i := 0; i < inboxCapacity; i++ {
		if err := s.TrySend(NewSnapshotMessage(tournament.GameSnapshot{}, false, 0)); err != nil {
			t.Fatalf("TrySend #%d unexpectedly failed before the inbox filled: %v", i, err)
		}
	}
	err := s.TrySend(NewSnapshotMessage(tournament.GameSnapshot{}, false, 0))
	if _, ok := err.(TrySendError); !ok {
		t.Fatalf("TrySend on a full inbox = %v (%T), want TrySendError", err, err)
	}
}

func TestRegisterWorkerAndBroadcastDeliversToMatchingSink(t *testing.T) {
	s := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	conn := &fakeConn{}
	if err := s.TrySend(NewConnectionMessage(SinkBinary, conn, false)); err != nil {
		t.Fatalf("TrySend NewConnection: %v", err)
	}
	time.Sleep(20 * time.Millisecond) // let Run register the worker

	snap := tournament.GameSnapshot{BlackScore: 2}
	if err := s.TrySend(NewSnapshotMessage(snap, false, 0)); err != nil {
		t.Fatalf("TrySend NewSnapshot: %v", err)
	}
	time.Sleep(50 * time.Millisecond) // let the write worker drain its channel

	if len(conn.writes) == 0 {
		t.Fatal("binary sink never received the broadcast frame")
	}
}

func TestBroadcastDropsOnSlowWorkerInsteadOfBlocking(t *testing.T) {
	s := NewServer()
	s.workers[1] = &workerHandle{id: 1, kind: SinkBinary, send: make(chan []byte, 1)}
	// Fill the worker's channel so the next broadcast must hit the default branch.
	s.workers[1].send <- []byte{0}

	done := make(chan struct{})
	go func() {
		s.broadcast(SinkBinary, []byte{1, 2, 3})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full worker channel instead of dropping the frame")
	}
}

func TestHandleTriggerFlashSetsFlashAndSchedulesExpiry(t *testing.T) {
	s := NewServer()
	s.handle(TriggerFlashMessage())
	if !s.flash {
		t.Fatal("flash should be set immediately after TriggerFlash")
	}

	time.Sleep(flashDuration + 100*time.Millisecond)
	s.mu.Lock()
	flash := s.flash
	s.mu.Unlock()
	if flash {
		t.Fatal("flash should have auto-cleared after flashDuration")
	}
}

func TestHandleTriggerFlashSupersedesEarlierExpiry(t *testing.T) {
	s := NewServer()
	s.handle(TriggerFlashMessage())
	firstGen := s.flashGen

	time.Sleep(flashDuration / 2)
	s.handle(TriggerFlashMessage()) // second trigger before the first's timer fires
	if s.flashGen == firstGen {
		t.Fatal("a second TriggerFlash should bump flashGen so the stale timer no-ops")
	}

	// Wait past the first timer's original deadline: flash must still be set,
	// since only the second (current) timer owns clearing it.
	time.Sleep(flashDuration/2 + 50*time.Millisecond)
	s.mu.Lock()
	flash := s.flash
	s.mu.Unlock()
	if !flash {
		t.Fatal("the superseded expiry fired and cleared flash prematurely")
	}
}

func TestHandleSetHideTimeTogglesState(t *testing.T) {
	s := NewServer()
	s.handle(SetHideTimeMessage(true))
	if !s.hideTime {
		t.Fatal("SetHideTime(true) should set hideTime")
	}
	s.handle(SetHideTimeMessage(false))
	if s.hideTime {
		t.Fatal("SetHideTime(false) should clear hideTime")
	}
}

func TestRunStopsOnStopMessage(t *testing.T) {
	s := NewServer()
	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	if err := s.TrySend(StopMessage()); err != nil {
		t.Fatalf("TrySend Stop: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after a Stop message")
	}
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	s := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
