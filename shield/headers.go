package shield

import "net/http"

// HeaderConfig defines the security headers applied to every response.
type HeaderConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
}

// DefaultHeaders returns the preview header set. No CSP: game pages often
// carry inline scripts next to the merged bundle and must keep running.
func DefaultHeaders() HeaderConfig {
	return HeaderConfig{
		XFrameOptions:       "SAMEORIGIN",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "no-referrer",
		PermissionsPolicy:   "camera=(), microphone=(), geolocation=()",
	}
}

// pairs returns the non-empty headers in a fixed order.
func (c HeaderConfig) pairs() [][2]string {
	all := [][2]string{
		{"X-Content-Type-Options", c.XContentTypeOptions},
		{"X-Frame-Options", c.XFrameOptions},
		{"Referrer-Policy", c.ReferrerPolicy},
		{"Content-Security-Policy", c.CSP},
		{"Permissions-Policy", c.PermissionsPolicy},
	}
	out := all[:0]
	for _, p := range all {
		if p[1] != "" {
			out = append(out, p)
		}
	}
	return out
}

// SecurityHeaders returns middleware that sets the configured security
// headers on every response. Empty fields are skipped.
func SecurityHeaders(cfg HeaderConfig) func(http.Handler) http.Handler {
	headers := cfg.pairs()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range headers {
				w.Header().Set(h[0], h[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}
