package rendezvous

import (
	"strings"
	"testing"

	"github.com/mcdev12/netplay/go/internal/models"
)

func TestResolveClientFromQuery(t *testing.T) {
	role, token := Resolve("https://play.example/session?room=abc123")
	if role != models.RoleClient || token != "abc123" {
		t.Fatalf("Resolve = %v %q, want client abc123", role, token)
	}
}

func TestResolveClientFromFragment(t *testing.T) {
	role, token := Resolve("https://play.example/#room=QZ7P2M")
	if role != models.RoleClient || token != "QZ7P2M" {
		t.Fatalf("Resolve = %v %q, want client QZ7P2M", role, token)
	}
}

func TestResolveHostWithoutToken(t *testing.T) {
	for _, locator := range []string{
		"https://play.example/",
		"https://play.example/?other=1",
		"https://play.example/#section",
		"",
	} {
		role, token := Resolve(locator)
		if role != models.RoleHost || token != "" {
			t.Fatalf("Resolve(%q) = %v %q, want host with no token", locator, role, token)
		}
	}
}

func TestResolveForwardsMalformedTokenUntouched(t *testing.T) {
	role, token := Resolve("https://play.example/?room=%21%21not-a-code%21%21")
	if role != models.RoleClient {
		t.Fatalf("presence alone selects client, got %v", role)
	}
	if token != "!!not-a-code!!" {
		t.Fatalf("token must be forwarded verbatim, got %q", token)
	}
}

func TestNewTokenShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok := NewToken()
		if len(tok) != tokenLength {
			t.Fatalf("token %q has length %d", tok, len(tok))
		}
		for _, c := range tok {
			if !strings.ContainsRune(tokenChars, c) {
				t.Fatalf("token %q uses char %q outside alphabet", tok, c)
			}
		}
		seen[tok] = true
	}
	if len(seen) < 2 {
		t.Fatalf("tokens are not random")
	}
}

func TestShareURLRoundTrip(t *testing.T) {
	u := ShareURL("https://play.example/", "AB23CD")
	role, token := Resolve(u)
	if role != models.RoleClient || token != "AB23CD" {
		t.Fatalf("ShareURL produced %q which resolved to %v %q", u, role, token)
	}
}
