package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Run starts the HTTP server, CORS-wrapped for the browser frontends, and
// blocks until the context is canceled or the server fails.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(handler),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
