// Package serialio opens the preconfigured serial port descriptors (spec
// §6 "Serial surface") and hands each opened port to the Update Sender as
// a NewConnection sink. Baud/framing parameters are fixed by the panel
// hardware and supplied by the caller; real hardware I/O itself is out of
// scope for this repo (spec §1) — this package is the open/register glue
// the Sender's generic write/serial workers plug into.
package serialio

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/uwhrefbox/refbox/internal/core/sender"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// Device describes one preconfigured serial panel connection.
type Device struct {
	Path string
	Baud int
	Kind sender.SinkKind
}

// OpenAll opens every configured device and registers it with srv as a
// serial sink. A device that fails to open is logged and skipped —
// panels connected later are not discovered automatically (no hotplug),
// matching the "preconfigured list... opened at startup" wording in spec
// §6.
func OpenAll(srv *sender.Server, devices []Device) {
	for _, d := range devices {
		port, err := openPort(d)
		if err != nil {
			telemetry.Warnf("serialio: opening %s failed: %v", d.Path, err)
			continue
		}
		if err := srv.TrySend(sender.NewConnectionMessage(d.Kind, port, true)); err != nil {
			telemetry.Warnf("serialio: registering %s failed: %v", d.Path, err)
			port.Close()
			continue
		}
		telemetry.Infof("serialio: opened %s at %d baud (%s)", d.Path, d.Baud, d.Kind)
	}
}

func openPort(d Device) (serial.Port, error) {
	port, err := serial.Open(d.Path, &serial.Mode{
		BaudRate: d.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.Path, err)
	}
	return port, nil
}
