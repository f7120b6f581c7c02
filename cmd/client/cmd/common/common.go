// Package common содержит общие для команд клиента флаги, доступ к
// приложению и вывод.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"babytracker/internal/app/client"
)

type appKey struct{}

// WithApp кладет приложение в контекст команды.
func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// App возвращает приложение, созданное корневой командой.
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(appKey{}).(*client.App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}

// Printer выводит результат команды текстом или JSON.
type Printer struct {
	Out  io.Writer
	JSON bool
}

// NewPrinter создает вывод в stdout. Цвет включается только для терминала.
func NewPrinter(jsonOutput bool) *Printer {
	color.NoColor = jsonOutput || !term.IsTerminal(int(os.Stdout.Fd()))
	return &Printer{Out: os.Stdout, JSON: jsonOutput}
}

// Result выводит v как JSON в режиме --json, иначе вызывает text.
func (p *Printer) Result(v any, text func(w io.Writer)) error {
	if p.JSON {
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(p.Out)
	return nil
}

func (p *Printer) Success(format string, args ...any) {
	if p.JSON {
		return
	}
	_, _ = color.New(color.FgGreen).Fprintf(p.Out, "✓ "+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	if p.JSON {
		return
	}
	_, _ = color.New(color.FgYellow).Fprintf(p.Out, "! "+format+"\n", args...)
}

// ParseID разбирает положительный идентификатор записи.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный id %q", s)
	}
	return id, nil
}
