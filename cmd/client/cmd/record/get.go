package record

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
)

func getCommand(printer func() *common.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Показать запись",
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

			doc, err := app.Get(cmd.Context(), c, id)
			if err != nil {
				return fmt.Errorf("ошибка получения записи: %w", err)
			}

			return printer().Result(doc, func(out io.Writer) {
				raw, _ := json.MarshalIndent(doc, "", "  ")
				fmt.Fprintf(out, "%s #%d\n%s\n", c.DisplayName(), id, raw)
			})
		},
	}
}
