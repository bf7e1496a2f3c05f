package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	t.Run("prefers X-Forwarded-For and takes the first hop", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", " 198.51.100.10 , 10.0.0.1")
		req.Header.Set("X-Real-IP", "203.0.113.5")

		require.Equal(t, "198.51.100.10", ClientIP(req))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.5")

		require.Equal(t, "203.0.113.5", ClientIP(req))
	})

	t.Run("falls back to the socket address", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.20:54321"

		require.Equal(t, "192.0.2.20", ClientIP(req))
	})
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		wantBrowser string
		wantOS      string
	}{
		{
			name:        "Chrome on Windows",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantBrowser: "Chrome",
			wantOS:      "Windows",
		},
		{
			name:        "Firefox on Linux",
			userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantBrowser: "Firefox",
			wantOS:      "Linux",
		},
		{
			name:        "Safari on iPhone",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
			wantBrowser: "Safari",
			wantOS:      "iPhone",
		},
		{
			name:        "Chrome on Android reports Android not Linux",
			userAgent:   "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "Safari on Mac",
			userAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
			wantBrowser: "Safari",
			wantOS:      "Mac OS X",
		},
		{
			name:        "unrecognized agent",
			userAgent:   "curl/8.4.0",
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
		{
			name:        "empty agent",
			userAgent:   "",
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser, os := ParseUserAgent(tt.userAgent)
			require.Equal(t, tt.wantBrowser, browser)
			require.Equal(t, tt.wantOS, os)
		})
	}
}
