package server

import "net/http"

// Routes registers all handlers and wraps them with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/distance", s.HandleDistance)
	mux.HandleFunc("/api/segment", s.HandleSegment)
	mux.HandleFunc("/api/center", s.HandleCenter)
	mux.HandleFunc("/api/within", s.HandleWithin)
	mux.HandleFunc("/api/offset", s.HandleOffset)
	mux.HandleFunc("/api/dms", s.HandleDMS)
	mux.HandleFunc("/api/transform", s.HandleTransform)
	mux.HandleFunc("/api/project", s.HandleProject)
	mux.HandleFunc("/api/fences", s.HandleFencesList)
	mux.HandleFunc("/api/fences/", s.HandleFence)
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/favicon.svg", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
