package models

import "fmt"

// Role identifies which side of the session this process plays. It is
// resolved once at startup and never changes for the lifetime of the
// session.
type Role int

const (
	RoleHost Role = iota
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Player is one of the exactly two participants in a session. Ordinal 0
// always belongs to the host and ordinal 1 to the client; the assignment
// is positional, not negotiated. Player values are immutable once the
// pair is built.
type Player struct {
	Ordinal int
	Role    Role
	Local   bool
}

func (p Player) IsHost() bool   { return p.Role == RoleHost }
func (p Player) IsClient() bool { return p.Role == RoleClient }
func (p Player) IsRemote() bool { return !p.Local }

func (p Player) String() string {
	side := "remote"
	if p.Local {
		side = "local"
	}
	return fmt.Sprintf("player{%d %s %s}", p.Ordinal, p.Role, side)
}

// PlayerPair builds the two players for a session from the local role.
// Index 0 is always the host player, index 1 the client player.
func PlayerPair(local Role) [2]Player {
	return [2]Player{
		{Ordinal: 0, Role: RoleHost, Local: local == RoleHost},
		{Ordinal: 1, Role: RoleClient, Local: local == RoleClient},
	}
}
