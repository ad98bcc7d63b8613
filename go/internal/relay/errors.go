package relay

import "errors"

var (
	errRoomTaken  = errors.New("room token already hosted")
	errNoSuchRoom = errors.New("no such room")
	errRoomFull   = errors.New("room already has two members")
)
