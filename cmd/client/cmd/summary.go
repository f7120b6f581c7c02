package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"babytracker/cmd/client/cmd/common"
	"babytracker/internal/domain/query"
	"babytracker/internal/domain/record"
	"babytracker/internal/domain/units"
)

func newSummaryCommand() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Сводка за день для активного профиля",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := common.App(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			if day == "" {
				day = now.Format(record.DateLayout)
			}
			if _, err := time.Parse(record.DateLayout, day); err != nil {
				return fmt.Errorf("--date ожидает YYYY-MM-DD, получено %q", day)
			}

			sum, err := app.Query().Summary(cmd.Context(), day, time.Local, now)
			if err != nil {
				return fmt.Errorf("ошибка построения сводки: %w", err)
			}

			unitSystem := app.Session().Units()
			return printer().Result(sum, func(out io.Writer) {
				printSummary(out, sum, unitSystem)
			})
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "день YYYY-MM-DD, по умолчанию сегодня")
	return cmd
}

func printSummary(out io.Writer, sum *query.Summary, system record.UnitSystem) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(out, "Сводка за %s\n\n", sum.Day)

	volume := fmt.Sprintf("%.0f ml", sum.FeedVolumeML)
	if system == record.Imperial {
		volume = fmt.Sprintf("%.1f oz", units.Round(units.OuncesFromMilliliters(sum.FeedVolumeML), 1))
	}
	fmt.Fprintf(out, "Кормления:   %d (%s)\n", sum.Feeds, volume)
	fmt.Fprintf(out, "Подгузники:  мокрые %d, грязные %d, смешанные %d\n",
		sum.Diapers[record.DiaperWet], sum.Diapers[record.DiaperDirty], sum.Diapers[record.DiaperMixed])

	sleep := sum.SleepTotal.Round(time.Minute).String()
	if sum.Sleeping {
		sleep += " " + color.CyanString("(спит)")
	}
	fmt.Fprintf(out, "Сон:         %s\n", sleep)
	fmt.Fprintf(out, "Лекарства:   %d\n", sum.Medications)

	if t := sum.Temperature; t != nil {
		value := fmt.Sprintf("%.1f°C", t.Celsius)
		if system == record.Imperial {
			value = fmt.Sprintf("%.1f°F", units.Round(units.FahrenheitFromCelsius(t.Celsius), 1))
		}
		if t.Celsius >= 38 {
			value = color.RedString("%s", value)
		}
		fmt.Fprintf(out, "Температура: %s в %s\n", value, t.At.In(time.Local).Format("15:04"))
	}

	if f := sum.LastFeed; f != nil {
		fmt.Fprintf(out, "\nПоследнее кормление: %s, %s назад\n", f.Type, time.Since(f.At).Round(time.Minute))
	}
	if d := sum.LastDiaper; d != nil {
		fmt.Fprintf(out, "Последний подгузник: %s, %s назад\n", d.Type, time.Since(d.At).Round(time.Minute))
	}
}
