package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHostNoPort(t *testing.T) {
	assert.Equal(t, "10.0.0.1", ParseHostNoPort("10.0.0.1:8080"))
	assert.Equal(t, "10.0.0.1", ParseHostNoPort("10.0.0.1"))
	assert.Equal(t, "::1", ParseHostNoPort("[::1]:8080"))
	assert.Equal(t, "", ParseHostNoPort(""))
}

func TestFirstForwardedFor(t *testing.T) {
	assert.Equal(t, "1.2.3.4", FirstForwardedFor("1.2.3.4, 5.6.7.8"))
	assert.Equal(t, "1.2.3.4", FirstForwardedFor(" 1.2.3.4 "))
	assert.Equal(t, "", FirstForwardedFor(""))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	assert.Equal(t, "10.0.0.1", ClientIP(r, false), "proxy headers ignored without trust")
	assert.Equal(t, "1.2.3.4", ClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "9.9.9.9")
	assert.Equal(t, "9.9.9.9", ClientIP(r, true))
}
