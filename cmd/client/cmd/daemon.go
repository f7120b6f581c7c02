package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"babytracker/cmd/client/cmd/common"
)

func newDaemonCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Фоновая синхронизация по таймеру",
		Long: `Запускает цикл синхронизации сразу и затем каждые SYNC_INTERVAL_SECONDS
до получения SIGINT или SIGTERM. С --metrics-addr метрики синхронизации
доступны по /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(app.Metrics(), promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("Сервер метрик остановлен", slog.Any("error", err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			results := app.Subscribe(4)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case r := <-results:
						if r.Aborted {
							log.Warn("Цикл синхронизации пропущен", slog.Any("error", r.Err))
							continue
						}
						log.Info("Цикл синхронизации",
							slog.Int("pushed", r.Pushed()),
							slog.Int("failed_collections", len(r.Failed())),
						)
					}
				}
			}()

			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "адрес для /metrics, например :9100")
	return cmd
}
