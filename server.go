package minissr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish
// once the serve context is cancelled.
const ShutdownTimeout = 5 * time.Second

// ListenAndServe listens on addr and serves the App until ctx is cancelled,
// then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("minissr: listen %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the App on ln until ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.log.Info("listening", "addr", ln.Addr().String())
	return serve(ctx, ln, a, a.log)
}

// ServeMetrics serves the App's metrics on addr until ctx is cancelled.
func (a *App) ServeMetrics(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("minissr: listen metrics %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.log.Info("serving metrics", "addr", ln.Addr().String())
	return serve(ctx, ln, mux, a.log)
}

func serve(ctx context.Context, ln net.Listener, h http.Handler, log *Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Slog().Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("minissr: shutdown: %w", err)
	}
	<-errCh
	return nil
}
