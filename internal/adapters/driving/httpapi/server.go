package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// ErrMissingService is returned when a required port is not provided.
var ErrMissingService = errors.New("httpapi: ingestion, retrieval and document services are required")

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// maxBodyBytes limits request bodies.
const maxBodyBytes = 4 << 20

// Ports aggregates the driving ports the API needs.
type Ports struct {
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Document  driving.DocumentService

	// Sync is optional; without it /admin/resync is not registered.
	Sync driving.Synchronizer
}

// Server serves the JSON API.
type Server struct {
	ports    *Ports
	validate *validator.Validate
	handler  http.Handler
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Ingestion == nil || ports.Retrieval == nil || ports.Document == nil {
		return nil, ErrMissingService
	}

	s := &Server{
		ports:    ports,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents", s.handleAddDocument)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /documents/count", s.handleCount)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	if ports.Sync != nil {
		mux.HandleFunc("POST /admin/resync", s.handleResync)
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.handler = withRequestID(withLogging(mux))
	return s, nil
}

// Handler returns the root handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	logger.Info("HTTP API listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
