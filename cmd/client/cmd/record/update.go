package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
)

func updateCommand(printer func() *common.Printer) *cobra.Command {
	var set, unset []string

	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Изменить поля записи",
		Long: `Изменяет указанные поля записи; запись снова ждет синхронизации.

Пример завершения сна:
  babytracker record update sleeps 12 --set end=2024-01-15T09:30:00Z
Повторное открытие сна:
  babytracker record update sleeps 12 --unset end`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			c, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			id, err := common.ParseID(args[1])
			if err != nil {
				return err
			}
			fields, err := common.ParseFields(set)
			if err != nil {
				return err
			}
			for _, key := range unset {
				fields[key] = nil
			}
			if len(fields) == 0 {
				return fmt.Errorf("укажите хотя бы одно поле через --set или --unset")
			}

			if err := app.Update(cmd.Context(), c, id, fields); err != nil {
				return fmt.Errorf("ошибка обновления записи: %w", err)
			}
			printer().Success("%s: запись %d обновлена", c.DisplayName(), id)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "поле key=value, можно повторять")
	cmd.Flags().StringArrayVar(&unset, "unset", nil, "удалить поле, можно повторять")
	return cmd
}
