package middleware

import (
	"net/http"
	"slices"
)

// CORS answers preflight requests and sets CORS headers for allowed origins.
// An empty allowedOrigins list allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowOrigin := ""
			switch {
			case len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*"):
				allowOrigin = "*"
			case origin != "" && slices.Contains(allowedOrigins, origin):
				allowOrigin = origin
			}

			if allowOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "86400")
				if allowOrigin != "*" {
					h.Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
