package sender

import (
	"context"
	"net"

	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// ListenAndServe opens TCP listeners for both binary and JSON ports, on
// both IPv6 (::) and IPv4 (0.0.0.0), tolerating either family failing to
// bind (spec §4.2/§6). Every accepted connection is handed to the Server
// as a NewConnection message; the listener itself owns no state beyond the
// sockets.
func ListenAndServe(ctx context.Context, srv *Server, binaryAddr, jsonAddr string) error {
	listeners, err := openDualStack(binaryAddr, jsonAddr)
	if err != nil {
		return err
	}

	for _, l := range listeners {
		go acceptLoop(ctx, srv, l.ln, l.kind)
	}

	<-ctx.Done()
	for _, l := range listeners {
		l.ln.Close()
	}
	return nil
}

type boundListener struct {
	ln   net.Listener
	kind SinkKind
}

func openDualStack(binaryAddr, jsonAddr string) ([]boundListener, error) {
	var out []boundListener
	for _, spec := range []struct {
		addr string
		kind SinkKind
	}{{binaryAddr, SinkBinary}, {jsonAddr, SinkJSON}} {
		for _, network := range []string{"tcp6", "tcp4"} {
			ln, err := net.Listen(network, spec.addr)
			if err != nil {
				telemetry.Warnf("sender: %s listen on %s (%s) failed: %v", spec.kind, network, spec.addr, err)
				continue
			}
			out = append(out, boundListener{ln: ln, kind: spec.kind})
		}
	}
	if len(out) == 0 {
		return nil, errNoListeners
	}
	return out, nil
}

func acceptLoop(ctx context.Context, srv *Server, ln net.Listener, kind SinkKind) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				telemetry.Warnf("sender: accept failed on %s: %v", ln.Addr(), err)
				return
			}
		}
		if err := srv.TrySend(NewConnectionMessage(kind, conn, false)); err != nil {
			telemetry.Warnf("sender: dropping new %s connection, server inbox unavailable: %v", kind, err)
			conn.Close()
		}
	}
}
