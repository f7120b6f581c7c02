package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Checker проверяет хранилище документов.
type Checker interface {
	Health(ctx context.Context) (string, error)
}

type Handler struct {
	checker    Checker
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(checker Checker, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		checker:    checker,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	storage, err := h.checker.Health(ctx)
	if err != nil {
		h.log.Warn("health check failed", slog.String("storage", storage), slog.Any("error", err))
		return &Output{
			Status: http.StatusServiceUnavailable,
			Body:   Response{OK: false, Storage: storage},
		}, nil
	}

	return &Output{
		Status: http.StatusOK,
		Body:   Response{OK: true, Storage: storage},
	}, nil
}
