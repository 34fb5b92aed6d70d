package api

import (
	"net"
	"net/http"

	"github.com/stashitapp/stashit-server/internal/http/response"
)

// limitMutations applies the per-client token bucket to write requests.
// Reads are never limited; a single user browsing should not hit a wall.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if !s.mutLimiter.Allow(clientKey(r)) {
				s.logger.Warn("mutation rate limit exceeded", "remote", r.RemoteAddr, "path", r.URL.Path)
				response.TooManyRequests(w, "too many requests, slow down", s.logger)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey buckets requests by client IP. RealIP middleware has already
// resolved forwarded headers by the time this runs.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
