package record

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/domain/query"
	"babytracker/internal/domain/record"
)

func listCommand(printer func() *common.Printer) *cobra.Command {
	var opts query.Options

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Список записей активного профиля",
		Long: `Выводит записи коллекции от новых к старым.

Поддерживается фильтрация по дню (--date), типу (--type) и ограничение --limit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			c, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			if c == record.Profiles {
				return fmt.Errorf("для профилей используйте: babytracker profile list")
			}
			if opts.Date != "" {
				if _, err := time.Parse(record.DateLayout, opts.Date); err != nil {
					return fmt.Errorf("--date ожидает YYYY-MM-DD, получено %q", opts.Date)
				}
			}

			entries, err := app.Query().Entries(cmd.Context(), c, opts)
			if err != nil {
				return fmt.Errorf("ошибка получения списка записей: %w", err)
			}

			return printer().Result(entries, func(out io.Writer) {
				printEntries(out, c, entries)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "день YYYY-MM-DD в локальной зоне")
	cmd.Flags().StringVar(&opts.Type, "type", "", "значение поля type, All - без фильтра")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "максимальное число записей")
	return cmd
}

func printEntries(out io.Writer, c record.Collection, entries []record.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Записи не найдены")
		return
	}

	fmt.Fprintf(out, "%s: %d\n\n", c.DisplayName(), len(entries))
	schema, _ := record.Lookup(c)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tВремя\tТип\tСинхр.\t")
	for _, e := range entries {
		when := e.EventTime(time.Local).In(time.Local).Format("2006-01-02 15:04")
		if schema.DayOnly {
			when = e.Day(time.Local)
		}
		kind := e.Kind()
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t\n", e.RecordID(), when, kind, e.IsSynced())
	}
	_ = w.Flush()
}
