package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"babytracker/cmd/client/cmd/common"
	"babytracker/cmd/client/cmd/profile"
	"babytracker/cmd/client/cmd/record"
	"babytracker/cmd/client/cmd/sync"
	"babytracker/internal/app/client"
	"babytracker/internal/app/client/config"
	"babytracker/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	profileID  int64
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "babytracker",
	Short: "Babytracker - дневник кормлений, сна и здоровья ребенка",
	Long: `Babytracker хранит записи о кормлениях, подгузниках, сне, росте,
прививках, визитах к врачу, лекарствах и температуре локально
и в фоне отправляет их на сервер синхронизации.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		if app != nil {
			_ = app.Shutdown(rootCmd.Context())
		}
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if serverURL != "" {
		cfg.APIURL = serverURL
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.NewLevel(cfg.Env, level)

	ctx := cmd.Context()
	app, err = client.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	if profileID > 0 {
		if err := app.SelectProfile(ctx, profileID); err != nil {
			return fmt.Errorf("профиль %d: %w", profileID, err)
		}
	}

	cmd.SetContext(common.WithApp(ctx, app))
	return nil
}

func shutdownApp(cmd *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := app.Shutdown(cmd.Context())
	app = nil
	return err
}

func printer() *common.Printer {
	return common.NewPrinter(jsonOutput)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().Int64Var(&profileID, "profile", 0, "id профиля вместо активного")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL сервера синхронизации")

	rootCmd.AddCommand(
		profile.NewCommand(printer),
		record.NewCommand(printer),
		sync.NewCommand(printer),
		newDaemonCommand(),
		newSummaryCommand(),
	)
}
