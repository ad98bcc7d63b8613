package models

import "testing"

func TestPlayerPairOrdinals(t *testing.T) {
	for _, role := range []Role{RoleHost, RoleClient} {
		pair := PlayerPair(role)
		if pair[0].Ordinal != 0 || pair[1].Ordinal != 1 {
			t.Fatalf("PlayerPair(%v) ordinals = %d,%d, want 0,1", role, pair[0].Ordinal, pair[1].Ordinal)
		}
		if !pair[0].IsHost() || !pair[1].IsClient() {
			t.Fatalf("PlayerPair(%v) roles wrong: %v, %v", role, pair[0], pair[1])
		}
	}
}

func TestPlayerPairLocalSide(t *testing.T) {
	host := PlayerPair(RoleHost)
	if !host[0].Local || host[1].Local {
		t.Fatalf("host side: ordinal 0 must be local, got %v / %v", host[0], host[1])
	}
	client := PlayerPair(RoleClient)
	if client[0].Local || !client[1].Local {
		t.Fatalf("client side: ordinal 1 must be local, got %v / %v", client[0], client[1])
	}
	if host[1].IsRemote() != true || client[0].IsRemote() != true {
		t.Fatalf("remote predicate inconsistent with local flag")
	}
}
