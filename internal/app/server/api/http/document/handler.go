package document

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	result, err := h.service.Ingest(ctx, input.Collection, input.RawBody)
	if err != nil {
		return nil, h.apiError(err)
	}

	status := http.StatusOK
	if result.Status == sync.StatusCreated {
		status = http.StatusCreated
	}
	return &pushOutput{Status: status, Body: *result}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	docs, err := h.service.List(ctx, input.Collection, input.Limit)
	if err != nil {
		return nil, h.apiError(err)
	}

	return &listOutput{
		Body: listResponse{
			Collection: input.Collection,
			Documents:  docs,
		},
	}, nil
}

func (h *Handler) apiError(err error) error {
	switch {
	case errors.Is(err, record.ErrUnknownCollection):
		return huma.Error404NotFound(err.Error())
	case sync.IsClientError(err):
		return huma.Error400BadRequest(err.Error())
	default:
		h.log.Error("document request failed", slog.Any("error", err))
		return huma.Error500InternalServerError("document storage failure")
	}
}
