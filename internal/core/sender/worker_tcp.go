package sender

import (
	"io"
	"time"

	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const writeTimeout = 500 * time.Millisecond

type deadlineWriter interface {
	SetWriteDeadline(time.Time) error
}

// runWriteWorker is the generic async-write worker (spec §4.2): it drains
// its inbox and writes each payload whole, with a 500ms timeout treated as
// a transient, loggable condition rather than a disconnect. Any other I/O
// error is fatal to this worker — the sink is dropped, not the Server.
func runWriteWorker(conn io.ReadWriteCloser, w *workerHandle, remove func()) {
	defer remove()
	defer conn.Close()

	for payload := range w.send {
		if dw, ok := conn.(deadlineWriter); ok {
			dw.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		if _, err := conn.Write(payload); err != nil {
			if isTimeout(err) {
				telemetry.Warnf("sender: write worker id=%d timed out, continuing", w.id)
				continue
			}
			telemetry.Warnf("sender: write worker id=%d terminating: %v", w.id, err)
			return
		}
	}
}

func isTimeout(err error) bool {
	type timeoutError interface{ Timeout() bool }
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}
