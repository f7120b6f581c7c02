package record

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/domain/record"
)

func addCommand(printer func() *common.Printer) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Добавить запись",
		Long: `Добавляет запись в коллекцию. Поля задаются флагами --set key=value.
Если время события не указано, используется текущий момент.

Пример:
  babytracker record add feeds --set "type=Bottle - Formula" --set amount=120 --set unit=ml`,
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
			fields, err := common.ParseFields(set)
			if err != nil {
				return err
			}
			if err := common.FillEventTime(c, fields, time.Now()); err != nil {
				return err
			}

			id, err := app.Add(cmd.Context(), c, record.Document(fields))
			if err != nil {
				return fmt.Errorf("ошибка создания записи: %w", err)
			}

			out := printer()
			out.Success("%s: запись %d создана", c.DisplayName(), id)
			return out.Result(map[string]any{"collection": c, "id": id}, func(io.Writer) {})
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "поле key=value, можно повторять")
	return cmd
}
