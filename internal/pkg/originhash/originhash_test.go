package originhash

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHashIsStableAndSalted(t *testing.T) {
	SetSalt("salt-a")
	a1 := Hash("203.0.113.9")
	a2 := Hash("203.0.113.9")
	if a1 != a2 {
		t.Fatal("same input should hash identically")
	}
	if len(a1) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a1))
	}

	SetSalt("salt-b")
	b := Hash("203.0.113.9")
	if a1 == b {
		t.Fatal("changing the salt should change the digest")
	}
	SetSalt(fallbackSalt)
}

func TestClientIPPrefersFirstForwardedHop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	if got := ClientIP(c); got != "198.51.100.7" {
		t.Fatalf("ClientIP = %q, want first forwarded hop", got)
	}
}

func TestClientIPFallsBackToLoopback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = ""

	if got := ClientIP(c); got != "127.0.0.1" {
		t.Fatalf("ClientIP = %q, want loopback fallback", got)
	}
}
