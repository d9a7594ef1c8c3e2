package server

import (
	"net"
	"net/http"
	"time"
)

// rateLimit applies the per-client limiter to POST requests
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
			s.log.Debug("rate limited %s %s", clientIP(r), r.URL.Path)
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs every request at debug level. The writer is passed
// through untouched so websocket upgrades can hijack it.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("%s %s %s (%s)", clientIP(r), r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
