// Package rendezvous resolves the session role from a shared locator.
//
// The locator is read once at startup. If it carries a room token
// (`room=<token>` in its query or fragment) this process is the client
// and the token identifies the host to dial. If not, this process is the
// host and must publish a freshly minted token out of band.
package rendezvous

import (
	"crypto/rand"
	"math/big"
	"net/url"
	"strings"

	"github.com/mcdev12/netplay/go/internal/models"
)

const tokenParam = "room"

// Token alphabet avoids ambiguous characters so codes survive being read
// aloud or retyped.
const tokenChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const tokenLength = 6

// Resolve reads the locator and picks the session role. A present token
// is returned verbatim: no format validation happens here, a malformed
// token simply fails later at dial time.
func Resolve(locator string) (models.Role, string) {
	u, err := url.Parse(locator)
	if err != nil {
		return models.RoleHost, ""
	}
	if tok := u.Query().Get(tokenParam); tok != "" {
		return models.RoleClient, tok
	}
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		if tok := frag.Get(tokenParam); tok != "" {
			return models.RoleClient, tok
		}
	}
	return models.RoleHost, ""
}

// NewToken mints a random room token for the host side.
func NewToken() string {
	b := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = tokenChars[idx.Int64()]
	}
	return string(b)
}

// ShareURL builds the locator the host publishes for the client to open.
// The token rides in the fragment so it never reaches intermediaries.
func ShareURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/#" + tokenParam + "=" + token
}
