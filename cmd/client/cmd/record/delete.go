package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
)

func deleteCommand(printer func() *common.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Удалить запись",
		Args:  cobra.ExactArgs(2),
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
			if err := app.Delete(cmd.Context(), c, id); err != nil {
				return fmt.Errorf("ошибка удаления записи: %w", err)
			}
			printer().Success("%s: запись %d удалена", c.DisplayName(), id)
			return nil
		},
	}
}
