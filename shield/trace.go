package shield

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/ptdbuild/kit"
)

// RequestID returns middleware that tags each request with a random ID
// (context via kit.WithRequestID, X-Request-ID header) and logs it at
// debug level.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := make([]byte, 4)
			rand.Read(id)
			reqID := hex.EncodeToString(id)

			w.Header().Set("X-Request-ID", reqID)
			logger.Debug("request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), reqID)))
		})
	}
}
