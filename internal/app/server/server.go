package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"babytracker/internal/app/server/api"
	"babytracker/internal/app/server/config"
	"babytracker/internal/domain/sync"
	"babytracker/internal/infrastructure/storage"
)

// App - сервер приема записей клиентов.
type App struct {
	config  *config.Config
	log     *slog.Logger
	server  *http.Server
	closeDB func() error
}

// New открывает хранилище документов и собирает HTTP сервер.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	repo, closeDB, err := storage.Open(ctx, cfg.DB.DatabaseURI, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	return NewWithRepository(cfg, log, repo, closeDB), nil
}

// NewWithRepository собирает сервер поверх готового хранилища.
func NewWithRepository(cfg *config.Config, log *slog.Logger, repo sync.Repository, closeDB func() error) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := sync.NewService(repo, log)
	if closeDB == nil {
		closeDB = func() error { return nil }
	}

	return &App{
		config: cfg,
		log:    log,
		server: &http.Server{
			Addr:              cfg.Server.RunAddress,
			Handler:           api.New(service, registry, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		closeDB: closeDB,
	}
}

// Run слушает RunAddress до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Server.RunAddress)
	if err != nil {
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve обслуживает запросы на ln. После отмены ctx сервер дожидается
// текущих запросов в пределах ShutdownTimeout и закрывает хранилище.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.log.Info("Сервер запущен",
		slog.String("address", ln.Addr().String()),
		slog.String("env", a.config.Env),
		slog.Bool("memory_storage", a.config.UsesMemoryStorage()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		serveErr = err
	case <-ctx.Done():
	}

	a.log.Info("Завершение работы сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Server.ShutdownTimeout)
	defer cancel()

	errs := []error{}
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		errs = append(errs, serveErr)
	}
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("ошибка остановки HTTP сервера: %w", err))
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("ошибка закрытия хранилища: %w", err))
	}

	a.log.Info("Сервер завершил работу")
	return errors.Join(errs...)
}
