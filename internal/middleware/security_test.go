package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  *SecureHeaders
		tls      bool
		upgrade  bool
		wantHSTS string
		wantCSP  []string
	}{
		{
			name:     "plain http has no hsts",
			headers:  DefaultSecureHeaders(),
			wantHSTS: "",
			wantCSP:  []string{"default-src 'self'", PlotlyCDN, "connect-src 'self' ws: wss:"},
		},
		{
			name:     "tls sends hsts",
			headers:  DefaultSecureHeaders(),
			tls:      true,
			wantHSTS: "max-age=63072000; includeSubDomains",
			wantCSP:  []string{"frame-ancestors 'none'"},
		},
		{
			name:    "dev mode relaxes csp",
			headers: &SecureHeaders{DevMode: true},
			wantCSP: []string{"connect-src *"},
		},
		{
			name:    "custom csp wins",
			headers: &SecureHeaders{ContentSecurityPolicy: "default-src 'none'"},
			wantCSP: []string{"default-src 'none'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			rec := httptest.NewRecorder()
			tt.headers.Handler(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantHSTS, rec.Header().Get("Strict-Transport-Security"))
			csp := rec.Header().Get("Content-Security-Policy")
			for _, want := range tt.wantCSP {
				assert.Contains(t, csp, want)
			}
			assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
		})
	}
}

func TestSecureHeadersDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	DefaultSecureHeaders().Handler(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}

func TestSecureHeadersSkipsWebSocketUpgrade(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	DefaultSecureHeaders().Handler(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
