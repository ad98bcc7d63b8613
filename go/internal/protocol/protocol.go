// Package protocol defines the four-variant tagged message exchanged
// between the two peers of a session. The JSON field names below are the
// wire contract; independently built host and client instances must agree
// on them exactly.
package protocol

import (
	"encoding/json"
	"time"
)

const (
	TypeInput        = "input"
	TypeState        = "state"
	TypePingRequest  = "ping-req"
	TypePingResponse = "ping-resp"
)

// Message is the sealed union of the four wire variants. Messages are
// transient: they exist only for the duration of one transport hop.
type Message interface {
	messageType() string
}

// Input carries one frame-stamped local input to the remote peer. The
// payload is simulation-defined JSON; this layer never inspects it.
type Input struct {
	Frame int             `json:"frame"`
	Input json.RawMessage `json:"input"`
}

// State carries an authoritative state snapshot. Only the host sends
// this variant in normal operation.
type State struct {
	Frame int             `json:"frame"`
	State json.RawMessage `json:"state"`
}

// PingRequest is sent periodically once the channel is open. SentTime is
// the sender's wall clock in epoch milliseconds.
type PingRequest struct {
	SentTime int64 `json:"sent_time"`
}

// PingResponse echoes the request's SentTime unchanged so the requester
// can compute one round-trip sample.
type PingResponse struct {
	SentTime int64 `json:"sent_time"`
}

func (Input) messageType() string        { return TypeInput }
func (State) messageType() string        { return TypeState }
func (PingRequest) messageType() string  { return TypePingRequest }
func (PingResponse) messageType() string { return TypePingResponse }

// EpochMillis converts a wall-clock time to the wire representation used
// by ping messages.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis converts a wire timestamp back to a time.Time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
