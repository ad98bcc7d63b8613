package session

// LifecycleState tracks connection bring-up. Errored is absorbing:
// every transport failure lands there and nothing leaves it; restarting
// the process is the only recovery.
type LifecycleState int

const (
	StateIdle LifecycleState = iota
	StateSignalingOpen
	StateAwaitingPeer
	StateDialing
	StateDataChannelOpen
	StateRunning
	StateErrored
)

func (s LifecycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSignalingOpen:
		return "signaling-open"
	case StateAwaitingPeer:
		return "awaiting-peer"
	case StateDialing:
		return "dialing"
	case StateDataChannelOpen:
		return "data-channel-open"
	case StateRunning:
		return "running"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
