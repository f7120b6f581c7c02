package record

import (
	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/domain/record"
)

// NewCommand - родительская команда для всех операций с записями
func NewCommand(printer func() *common.Printer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Управление записями",
		Long: `Создание, просмотр, обновление и удаление записей активного профиля.

Коллекции: feeds, diapers, sleeps, growth, ketones, vaccines, visits,
medications, temperatures.`,
	}
	cmd.AddCommand(
		addCommand(printer),
		listCommand(printer),
		getCommand(printer),
		updateCommand(printer),
		deleteCommand(printer),
	)
	return cmd
}

func parseCollection(name string) (record.Collection, error) {
	return record.Parse(name)
}
