package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Flarenzy/fortimigrate/internal/auth"
	appdb "github.com/Flarenzy/fortimigrate/internal/db"
	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/fortios"
	apihttp "github.com/Flarenzy/fortimigrate/internal/http"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

const shutdownTimeout = 5 * time.Second

func Run(ctx context.Context, cfg Config) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return Serve(ctx, cfg, listener)
}

// Serve wires the service onto listener and blocks until ctx is cancelled
// or the server fails. Startup errors are returned before anything is served.
func Serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger := NewLogger(os.Stderr, cfg.LogLevel, cfg.JSONLogging)

	device, err := settings.Load(cfg.DeviceSettings)
	if err != nil {
		return fmt.Errorf("load device settings: %w", err)
	}

	authenticator, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	pool, err := appdb.NewPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := domain.NewLoggingConversionService(
		logger,
		domain.NewConversionService(appdb.NewSnapshotRepository(pool), fortios.NewConverter(device)),
	)
	api := apihttp.NewAPI(logger, pool, service, authenticator)

	server := &http.Server{
		Handler:      api.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving http", "addr", listener.Addr().String(), "auth", authenticator != nil)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newAuthenticator(ctx context.Context, cfg Config) (auth.Authenticator, error) {
	return auth.NewKeycloakAuthenticator(ctx, auth.Config{
		Enabled:      cfg.AuthEnabled,
		Issuer:       cfg.Issuer,
		JWKSURL:      cfg.JWKSURL,
		Audience:     cfg.Audience,
		RequiredRole: cfg.RequiredRole,
	})
}

