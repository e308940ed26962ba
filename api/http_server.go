package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// NewServer applies production timeouts around the assembled routes. The
// write timeout must stay generous enough for WebSocket upgrades to pass
// through before the connection is hijacked.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

// Shutdown drains the server without interrupting in-flight requests,
// bounded by the given timeout.
func Shutdown(log *slog.Logger, server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("Shutting down HTTP server")
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
		return err
	}
	return nil
}
