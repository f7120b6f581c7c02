//GET  /api/health         # Состояние сервера и хранилища
//POST /api/{collection}   # Принять запись клиента (upsert по id)
//GET  /api/{collection}   # Последние принятые записи коллекции
//GET  /metrics            # Метрики Prometheus

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	documentAPI "babytracker/internal/app/server/api/http/document"
	healthAPI "babytracker/internal/app/server/api/http/health"
	"babytracker/internal/app/server/api/http/middleware"
	"babytracker/internal/app/server/api/http/middleware/logger"
	"babytracker/internal/app/server/api/http/middleware/metrics"
	"babytracker/internal/domain/sync"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Document *documentAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register и /metrics.
func New(service sync.Servicer, reg *prometheus.Registry, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Babytracker Sync API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(service, reg, log)
	h.Health.SetupRoutes(API)
	h.Document.SetupRoutes(API)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return mux
}

func handlers(service sync.Servicer, reg prometheus.Registerer, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	metricsMW := metrics.New(reg)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metricsMW.Middleware())
	healthHandler := healthAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metricsMW.Middleware())
	documentHandler := documentAPI.NewHandler(service, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Document: documentHandler,
	}
}
