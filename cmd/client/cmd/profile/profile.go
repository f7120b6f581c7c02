package profile

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/domain/record"
)

// NewCommand - управление профилями детей.
func NewCommand(printer func() *common.Printer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Профили детей",
	}
	cmd.AddCommand(listCommand(printer), addCommand(printer), useCommand(printer),
		updateCommand(printer), deleteCommand(printer))
	return cmd
}

type profileView struct {
	*record.Profile
	Active bool `json:"active"`
}

func listCommand(printer func() *common.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список профилей",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			profiles, err := app.Query().ListProfiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("ошибка получения профилей: %w", err)
			}
			active, _ := app.Session().ActiveProfile()

			views := make([]profileView, 0, len(profiles))
			for _, p := range profiles {
				views = append(views, profileView{Profile: p, Active: p.ID == active})
			}

			return printer().Result(views, func(out io.Writer) {
				if len(views) == 0 {
					fmt.Fprintln(out, "Профилей нет. Создайте первый: babytracker profile add --name <имя> --dob YYYY-MM-DD")
					return
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "\tID\tИмя\tДата рождения\tЕдиницы\tСинхр.")
				for _, v := range views {
					mark := ""
					if v.Active {
						mark = "*"
					}
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%t\n", mark, v.ID, v.Name, v.DOB, v.Units, v.Synced)
				}
				_ = w.Flush()
			})
		},
	}
}

func addCommand(printer func() *common.Printer) *cobra.Command {
	var p record.Profile
	var units string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Создать профиль",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			p.Units = record.UnitSystem(units)
			id, err := app.CreateProfile(cmd.Context(), &p)
			if err != nil {
				return fmt.Errorf("ошибка создания профиля: %w", err)
			}
			out := printer()
			out.Success("Профиль %q создан, id %d", p.Name, id)
			return out.Result(map[string]int64{"id": id}, func(io.Writer) {})
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "имя ребенка")
	cmd.Flags().StringVar(&p.DOB, "dob", "", "дата рождения YYYY-MM-DD")
	cmd.Flags().StringVar(&p.Gender, "gender", "", "пол")
	cmd.Flags().StringVar(&units, "units", string(record.Metric), "система единиц: metric или imperial")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("dob")
	return cmd
}

func useCommand(printer func() *common.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Сделать профиль активным в этом запуске",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			id, err := common.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := app.SelectProfile(cmd.Context(), id); err != nil {
				return fmt.Errorf("ошибка выбора профиля: %w", err)
			}
			printer().Success("Активный профиль: %d (%s)", id, app.Session().Units())
			return nil
		},
	}
}

func updateCommand(printer func() *common.Printer) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить поля профиля",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			id, err := common.ParseID(args[0])
			if err != nil {
				return err
			}
			fields, err := common.ParseFields(set)
			if err != nil {
				return err
			}
			if err := app.Update(cmd.Context(), record.Profiles, id, fields); err != nil {
				return fmt.Errorf("ошибка обновления профиля: %w", err)
			}
			printer().Success("Профиль %d обновлен", id)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "поле key=value, можно повторять")
	return cmd
}

func deleteCommand(printer func() *common.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить профиль (события профиля сохраняются)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			id, err := common.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Delete(cmd.Context(), record.Profiles, id); err != nil {
				return fmt.Errorf("ошибка удаления профиля: %w", err)
			}
			printer().Success("Профиль %d удален", id)
			return nil
		},
	}
}
