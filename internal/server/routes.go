package server

import "net/http"

// Handler returns the routed and wrapped handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /survey/start", s.handleStart)
	mux.HandleFunc("GET /survey", s.handleSurvey)
	mux.HandleFunc("POST /survey/answer", s.handleAnswer)
	mux.HandleFunc("GET /survey/result", s.handleResult)
	mux.HandleFunc("GET /survey/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.logRequests(s.rateLimit(mux))
}
