package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dmkor/button-game-backend/internal/store"
)

func SetupRoutes(st store.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/session", SessionStatus(st, log))
	return r
}
