package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardWebsocketOriginCheck(t *testing.T) {
	h := NewDashboardHandler(nil, nil, "https://app.coinctrl.example")

	cases := []struct {
		name    string
		origin  string
		host    string
		allowed bool
	}{
		{"no origin header", "", "app.coinctrl.example", true},
		{"configured base host", "https://app.coinctrl.example", "other.example", true},
		{"request host match", "http://localhost:8080", "localhost:8080", true},
		{"cross-site origin", "https://evil.example", "app.coinctrl.example", false},
		{"unparseable origin", "http://a b.example", "app.coinctrl.example", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/dashboard/ws", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			assert.Equal(t, tc.allowed, h.checkOrigin(req))
		})
	}
}

func TestDashboardOriginCheckWithoutBaseURL(t *testing.T) {
	h := NewDashboardHandler(nil, nil, "")

	req := httptest.NewRequest("GET", "/api/v1/dashboard/ws", nil)
	req.Host = "localhost:8080"
	req.Header.Set("Origin", "https://elsewhere.example")
	assert.False(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:8080")
	assert.True(t, h.checkOrigin(req))
}
