package originhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackSalt = "default-salt"

var salt = fallbackSalt

// SetSalt configures the hashing salt (call on startup).
func SetSalt(s string) {
	if s != "" {
		salt = s
	}
}

// Hash returns the salted SHA-256 of a client address. Raw addresses are
// never stored; every table keys visitors by this digest.
func Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])
}

// ClientIP extracts the originating address: first hop of
// X-Forwarded-For when present, loopback otherwise.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "127.0.0.1"
}

// FromContext hashes the request's client address.
func FromContext(c *gin.Context) string {
	return Hash(ClientIP(c))
}
