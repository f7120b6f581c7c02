package sync

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/app/client"
)

// NewCommand - синхронизация с сервером.
func NewCommand(printer func() *common.Printer) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Отправить несинхронизированные записи на сервер",
		Long: `Выполняет один цикл синхронизации: проверяет доступность сервера
и отправляет записи каждой коллекции по порядку. Ошибка в одной
коллекции не останавливает остальные.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			if status {
				return showStatus(cmd, app, printer())
			}
			return runSync(cmd, app, printer())
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "показать число записей, ожидающих отправки")
	return cmd
}

type collectionView struct {
	Collection string `json:"collection"`
	Pending    int    `json:"pending"`
	Pushed     int    `json:"pushed"`
	Stale      int    `json:"stale,omitempty"`
	Error      string `json:"error,omitempty"`
}

type resultView struct {
	Aborted     bool             `json:"aborted"`
	Error       string           `json:"error,omitempty"`
	Pushed      int              `json:"pushed"`
	DurationMS  int64            `json:"durationMs"`
	Collections []collectionView `json:"collections"`
}

func runSync(cmd *cobra.Command, app *client.App, out *common.Printer) error {
	result := app.Sync(cmd.Context())

	view := resultView{
		Aborted:    result.Aborted,
		Pushed:     result.Pushed(),
		DurationMS: result.Duration().Milliseconds(),
	}
	if result.Err != nil {
		view.Error = result.Err.Error()
	}
	for _, c := range result.Collections {
		cv := collectionView{Collection: c.Collection.String(), Pending: c.Pending, Pushed: c.Pushed, Stale: c.Stale}
		if c.Err != nil {
			cv.Error = c.Err.Error()
		}
		view.Collections = append(view.Collections, cv)
	}

	return out.Result(view, func(w io.Writer) {
		if result.Aborted {
			out.Warn("Сервер недоступен, записи будут отправлены позже: %v", result.Err)
			return
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Коллекция\tОжидало\tОтправлено\tСтатус\t")
		for _, c := range result.Collections {
			if c.Pending == 0 {
				continue
			}
			state := color.GreenString("OK")
			if c.Err != nil {
				state = color.RedString("ошибка: %v", c.Err)
			} else if c.Stale > 0 {
				state = color.YellowString("изменено во время отправки: %d", c.Stale)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t\n", c.Collection.DisplayName(), c.Pending, c.Pushed, state)
		}
		_ = tw.Flush()

		fmt.Fprintf(w, "\nОтправлено записей: %d за %v\n", result.Pushed(), result.Duration().Round(time.Millisecond))
		if failed := len(result.Failed()); failed > 0 {
			out.Warn("Коллекций с ошибками: %d, они будут повторены в следующем цикле", failed)
		}
	})
}

func showStatus(cmd *cobra.Command, app *client.App, out *common.Printer) error {
	pending, err := app.Pending(cmd.Context())
	if err != nil {
		return fmt.Errorf("ошибка получения статуса: %w", err)
	}

	views := make([]collectionView, 0, len(pending))
	total := 0
	for _, p := range pending {
		views = append(views, collectionView{Collection: p.Collection.String(), Pending: p.Count})
		total += p.Count
	}

	return out.Result(views, func(w io.Writer) {
		if total == 0 {
			out.Success("Все записи синхронизированы")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range pending {
			if p.Count > 0 {
				fmt.Fprintf(tw, "%s\t%d\t\n", p.Collection.DisplayName(), p.Count)
			}
		}
		_ = tw.Flush()
		fmt.Fprintf(w, "Ожидают отправки: %d\n", total)
	})
}
