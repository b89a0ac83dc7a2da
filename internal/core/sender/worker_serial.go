package sender

import (
	"io"
	"time"

	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const serialCadence = 100 * time.Millisecond

// runSerialWorker retransmits the latest NewSnapshot frame every cadence
// tick — panels expect a heartbeat, not just change notifications (spec
// §4.2). A TriggerFlash pulse forces the frame's flash bit for the next 3
// cadences, then auto-clears, independent of the Server's own flash state.
//
// The first message this worker ever sees on its send channel must be a
// snapshot frame; a flash pulse before that is an IllegalMessage and
// terminates the worker (spec §4.2).
func runSerialWorker(conn io.ReadWriteCloser, w *workerHandle, remove func()) {
	defer remove()
	defer conn.Close()

	ticker := time.NewTicker(serialCadence)
	defer ticker.Stop()

	var latest []byte
	flashCadencesLeft := 0

	for {
		select {
		case payload, ok := <-w.send:
			if !ok {
				return
			}
			latest = payload

		case <-w.flash:
			if latest == nil {
				telemetry.Warnf("sender: serial worker id=%d got TriggerFlash before NewSnapshot, terminating", w.id)
				return
			}
			flashCadencesLeft = 3

		case <-ticker.C:
			if latest == nil {
				continue
			}
			frame := latest
			if flashCadencesLeft > 0 {
				frame = withFlashBit(latest)
				flashCadencesLeft--
			}
			if dw, ok := conn.(deadlineWriter); ok {
				dw.SetWriteDeadline(time.Now().Add(writeTimeout))
			}
			if _, err := conn.Write(frame); err != nil {
				if isTimeout(err) {
					telemetry.Warnf("sender: serial worker id=%d timed out, continuing", w.id)
					continue
				}
				telemetry.Warnf("sender: serial worker id=%d terminating: %v", w.id, err)
				return
			}
		}
	}
}

// withFlashBit returns a copy of payload with the panel header's flash bit
// forced on, leaving the cached frame itself untouched for the next tick.
func withFlashBit(payload []byte) []byte {
	out := make([]byte, len(payload))
	copy(out, payload)
	if len(out) > 0 {
		out[0] |= 1 << 0
	}
	return out
}
