package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Flarenzy/fortimigrate/internal/auth"
	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type API struct {
	Logger        *slog.Logger
	Health        HealthChecker
	Service       domain.ConversionService
	Authenticator auth.Authenticator

	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, health HealthChecker, service domain.ConversionService, authenticator auth.Authenticator) *API {
	return &API{
		Logger:        logger,
		Health:        health,
		Service:       service,
		Authenticator: authenticator,
		validate:      newValidator(),
	}
}

func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/v1/conversions", a.handleConvert)
	mux.HandleFunc("GET /api/v1/snapshots", a.handleListSnapshots)
	mux.HandleFunc("POST /api/v1/snapshots", a.handleCreateSnapshot)
	mux.HandleFunc("GET /api/v1/snapshots/{id}", a.handleGetSnapshot)
	mux.HandleFunc("DELETE /api/v1/snapshots/{id}", a.handleDeleteSnapshot)
	mux.HandleFunc("GET /api/v1/snapshots/{id}/config", a.handleSnapshotConfig)
	mux.HandleFunc("GET /api/v1/snapshots/{id}/inventory", a.handleSnapshotInventory)

	return a.authMiddleware(mux)
}
