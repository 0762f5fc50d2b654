// Package sessionid mints the opaque tokens that correlate an interview with
// its external side effects (archive entries, delivered documents). The
// tokens are operator-facing identifiers, not secrets.
package sessionid

import (
	"crypto/rand"
	"strings"
)

const (
	prefix      = "SESSION-"
	tokenLength = 9
	alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Mint produces a short, human-legible token of the form SESSION-XXXXXXXXX
// with nine case-normalized base36 characters.
func Mint() string {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform source is broken;
		// there is no useful recovery for an identifier.
		panic("sessionid: " + err.Error())
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, b := range buf {
		sb.WriteByte(alphabet[int(b)%len(alphabet)])
	}
	return sb.String()
}
