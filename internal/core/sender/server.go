package sender

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/uwhrefbox/refbox/internal/core/snapshotcodec"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const (
	inboxCapacity      = 8
	workerSendCapacity = 4
	flashDuration      = 300 * time.Millisecond
)

// Server is the Update Sender's consumer half: it owns the worker
// registry, the cached encodings, and the flash/hide-time state, and is
// the only goroutine that ever touches them (spec §4.2/§5).
type Server struct {
	inbox chan ServerMessage

	mu      sync.Mutex
	workers map[uint64]*workerHandle
	nextID  uint64

	hideTime bool
	flash    bool
	flashGen uint64 // invalidates a stale flash-expiry timer after a second TriggerFlash

	lastSnapshot     tournament.GameSnapshot
	lastWhiteOnRight bool
	lastBrightness   uint8
	haveSnapshot     bool
}

type workerHandle struct {
	id     uint64
	kind   SinkKind
	serial bool
	send   chan []byte
	flash  chan struct{} // serial workers only: pulse for TriggerFlash
}

// NewServer constructs a Server with an empty worker registry.
func NewServer() *Server {
	return &Server{
		inbox:   make(chan ServerMessage, inboxCapacity),
		workers: make(map[uint64]*workerHandle),
	}
}

// TrySend is the producer-facing non-blocking entry point (spec §4.2
// send_snapshot / trigger_flash / etc.): it never blocks. When the inbox is
// full it returns a TrySendError carrying the message, which the caller can
// drop or retry. The inbox channel is never closed, so the error's Closed
// field is never set, and a send after Run has returned succeeds until the
// inbox fills.
func (s *Server) TrySend(msg ServerMessage) error {
	select {
	case s.inbox <- msg:
		return nil
	default:
		return TrySendError{Message: msg}
	}
}

// Run drains the inbox until Stop is received or ctx is canceled, handling
// every message on this single goroutine — no other goroutine mutates
// Server state (spec §5 "single-threaded cooperative runtime").
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			return
		case msg := <-s.inbox:
			if msg.Kind == msgStop {
				s.stopAll()
				return
			}
			s.handle(msg)
		}
	}
}

func (s *Server) handle(msg ServerMessage) {
	switch msg.Kind {
	case msgNewConnection:
		s.registerWorker(msg.ConnKind, msg.Conn, msg.Serial)
	case msgNewSnapshot:
		s.lastSnapshot = msg.Snapshot
		s.lastWhiteOnRight = msg.WhiteOnRight
		s.lastBrightness = msg.Brightness
		s.haveSnapshot = true
		s.encodeAndBroadcast()
	case msgTriggerFlash:
		s.flash = true
		s.flashGen++
		gen := s.flashGen
		if s.haveSnapshot {
			s.encodeAndBroadcast()
		}
		s.pulseSerialFlash()
		time.AfterFunc(flashDuration, func() { s.expireFlash(gen) })
	case msgSetHideTime:
		s.hideTime = msg.HideTime
	}
}

func (s *Server) expireFlash(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flashGen != gen {
		return // superseded by a later TriggerFlash; let that one own expiry
	}
	s.flash = false
}

func (s *Server) encodeAndBroadcast() {
	bin := snapshotcodec.Project(s.lastSnapshot, s.hideTime)
	frame, err := snapshotcodec.Encode(bin)
	if err != nil {
		telemetry.Errorf("sender: binary encode failed: %v", err)
	} else {
		header := panelHeader{
			Flash:        s.flash,
			WhiteOnRight: s.lastWhiteOnRight,
			Brightness:   s.lastBrightness,
		}.encode()
		payload := make([]byte, 0, snapshotcodec.FrameLen+1)
		payload = append(payload, header)
		payload = append(payload, frame[:]...)
		s.broadcast(SinkBinary, payload)
	}

	jsonPayload, err := snapshotcodec.EncodeJSON(s.lastSnapshot)
	if err != nil {
		telemetry.Errorf("sender: json encode failed: %v", err)
		return
	}
	s.broadcast(SinkJSON, jsonPayload)
}

func (s *Server) broadcast(kind SinkKind, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workers {
		if w.kind != kind {
			continue
		}
		select {
		case w.send <- payload:
		default:
			telemetry.Warnf("sender: dropping %s frame for slow worker id=%d", kind, w.id)
		}
	}
}

func (s *Server) pulseSerialFlash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workers {
		if !w.serial {
			continue
		}
		select {
		case w.flash <- struct{}{}:
		default:
		}
	}
}

func (s *Server) registerWorker(kind SinkKind, conn io.ReadWriteCloser, serial bool) {
	id := atomic.AddUint64(&s.nextID, 1)
	w := &workerHandle{
		id:     id,
		kind:   kind,
		serial: serial,
		send:   make(chan []byte, workerSendCapacity),
		flash:  make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.workers[id] = w
	s.mu.Unlock()

	remove := func() {
		s.mu.Lock()
		delete(s.workers, id)
		s.mu.Unlock()
	}

	if serial {
		go runSerialWorker(conn, w, remove)
	} else {
		go runWriteWorker(conn, w, remove)
	}
}

func (s *Server) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.workers {
		close(w.send)
		delete(s.workers, id)
	}
}
