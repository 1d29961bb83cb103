package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/store"
)

// Server is the remote backup endpoint: it accepts pushed backup documents
// and serves them back for recovery.
type Server struct {
	Server    *http.Server
	log       *zerolog.Logger
	db        *sql.DB
	backupAPI *BackupHandler
}

func New(addr string, db *sql.DB, log *zerolog.Logger) *Server {
	backups := store.NewBackupStore(db, *log)
	backupAPI := NewBackupHandler(backups, log)

	s := &Server{
		Server: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:        db,
		log:       log,
		backupAPI: backupAPI,
	}

	r := mux.NewRouter()
	s.setupRoutes(r)
	s.Server.Handler = r

	return s
}

func (s *Server) setupRoutes(r *mux.Router) {
	// Use the logging middleware for all routes
	r.Use(s.loggingMiddleware)

	// Health check endpoint
	r.HandleFunc("/health", s.healthCheck).Methods("GET")

	// Backup contract: push a document, recover it by user id
	r.HandleFunc("/backup", s.backupAPI.Receive).Methods("POST")
	r.HandleFunc("/recover/{user_id}", s.backupAPI.Recover).Methods("GET")
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.log.Info().Str("address", s.Server.Addr).Msg("Starting server")
	return s.Server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("Shutting down server")
	return s.Server.Shutdown(ctx)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		http.Error(w, `{"status":"error","message":"database unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// loggingMiddleware logs all incoming requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer to capture the status code
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Str("duration", duration.String()).
			Msg("Request processed")
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
