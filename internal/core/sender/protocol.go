// Package sender implements the Update Sender / Server (spec §4.2):
// producers hand it GameSnapshots and control messages over a bounded
// channel, and it owns encoding, per-sink fan-out, and the TCP/serial I/O
// workers, so producers never block on slow consumers.
package sender

import (
	"io"

	"github.com/uwhrefbox/refbox/internal/core/tournament"
)

// SinkKind discriminates the two wire encodings a connection subscribes to.
type SinkKind uint8

const (
	SinkBinary SinkKind = iota
	SinkJSON
)

func (k SinkKind) String() string {
	if k == SinkBinary {
		return "binary"
	}
	return "json"
}

// ServerMessage is the tagged union of everything a producer can send the
// Server (spec §4.2): NewConnection, NewSnapshot, TriggerFlash,
// SetHideTime, Stop.
type ServerMessage struct {
	Kind messageKind

	Conn         io.ReadWriteCloser // NewConnection
	ConnKind     SinkKind           // NewConnection
	Serial       bool               // NewConnection: serial sink vs TCP sink

	Snapshot     tournament.GameSnapshot // NewSnapshot
	WhiteOnRight bool                    // NewSnapshot
	Brightness   uint8                   // NewSnapshot

	HideTime bool // SetHideTime
}

type messageKind uint8

const (
	msgNewConnection messageKind = iota
	msgNewSnapshot
	msgTriggerFlash
	msgSetHideTime
	msgStop
)

func NewConnectionMessage(kind SinkKind, conn io.ReadWriteCloser, serial bool) ServerMessage {
	return ServerMessage{Kind: msgNewConnection, Conn: conn, ConnKind: kind, Serial: serial}
}

func NewSnapshotMessage(snap tournament.GameSnapshot, whiteOnRight bool, brightness uint8) ServerMessage {
	return ServerMessage{Kind: msgNewSnapshot, Snapshot: snap, WhiteOnRight: whiteOnRight, Brightness: brightness}
}

func TriggerFlashMessage() ServerMessage { return ServerMessage{Kind: msgTriggerFlash} }

func SetHideTimeMessage(hide bool) ServerMessage { return ServerMessage{Kind: msgSetHideTime, HideTime: hide} }

func StopMessage() ServerMessage { return ServerMessage{Kind: msgStop} }

// TrySendError wraps a failed non-blocking send back to the caller with the
// message it couldn't deliver, so the caller can choose to drop or retry
// (spec §6 "Error signaling to caller").
type TrySendError struct {
	Closed  bool
	Message ServerMessage
}

func (e TrySendError) Error() string {
	if e.Closed {
		return "sender: server inbox is closed"
	}
	return "sender: server inbox is full"
}
