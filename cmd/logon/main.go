// Package main содержит точку входа logon: собирает перехватчик вызовов
// по конфигурации и прогоняет через него пример UserController.filterUsers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kargones/logon/internal/app"
	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/constants"
	"github.com/Kargones/logon/internal/di"
	"github.com/Kargones/logon/internal/pkg/output"
	"github.com/Kargones/logon/internal/pkg/tracing"
)

// options — значения флагов командной строки.
type options struct {
	configPath string
	locale     string
	i18n       bool
	name       string
	email      string
	format     string
}

// exitError переносит код завершения из RunE в run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run выполняет команду и возвращает exit code.
// os.Exit вызывается только в main, после отработки всех defer.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return constants.ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	// Ошибки разбора флагов
	fmt.Fprintf(stderr, "%s: %v\n", constants.AppName, err)
	return constants.ExitBootstrapFailed
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Журналирование вызовов методов через перехватчик",
		Long: `Собирает перехватчик вызовов по конфигурации (YAML и переменные LOGON_*)
и выполняет UserController.filterUsers один раз. Записи entry/exit/error
уходят в настроенные транспорты: лог, алерты, таблицу SQL Server.

Коды завершения:
  0  вызов завершился успешно
  1  вызов завершился ошибкой
  2  ошибка конфигурации или инициализации`,
		Example: `  logon --email ann@example.com
  logon -c logon.yaml --i18n --locale pt-BR --email ann@example.com
  logon --email ann@example.com -o json`,
		Version:       constants.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "путь к YAML-конфигурации")
	f.StringVar(&opts.locale, "locale", "", "локаль сообщений (BCP 47), например ru или pt-BR")
	f.BoolVar(&opts.i18n, "i18n", false, "рендерить записи через каталог сообщений")
	f.StringVar(&opts.name, "name", "", "фильтр по имени пользователя")
	f.StringVar(&opts.email, "email", "", "фильтр по email пользователя")
	f.StringVarP(&opts.format, "output", "o", output.FormatText, "формат вывода: text или json")
	return cmd
}

func execute(cmd *cobra.Command, opts *options) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if !output.IsValidFormat(opts.format) {
		return bootstrapFailed(stderr, fmt.Errorf("неизвестный формат вывода %q", opts.format))
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return bootstrapFailed(stderr, err)
	}
	if cmd.Flags().Changed("locale") {
		cfg.Logger.Locale = opts.locale
	}
	if cmd.Flags().Changed("i18n") {
		cfg.Logger.EnableI18n = opts.i18n
	}

	application, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return bootstrapFailed(stderr, err)
	}
	defer cleanup()

	l := application.Logger
	l.Debug("информация о сборке", "version", constants.Version)

	// trace_id задаётся заранее, чтобы вывод и записи журнала совпадали
	traceID := tracing.GenerateTraceID()
	ctx := tracing.WithTraceID(cmd.Context(), traceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, traceID)

	start := time.Now()
	data, callErr := application.Controller.FilterUsers(ctx, app.UserFilter{
		Name:  opts.name,
		Email: opts.email,
	})
	result := output.NewResult(app.MethodFilterUsers, data, callErr, time.Since(start), traceID)

	if err := application.Shutdown(context.Background()); err != nil {
		l.Warn("записи журнала сброшены не полностью", "error", err, "trace_id", traceID)
	}

	w := stdout
	if callErr != nil && !strings.EqualFold(opts.format, output.FormatJSON) {
		w = stderr
	}
	if err := output.NewWriter(opts.format).Write(w, result); err != nil {
		l.Error("ошибка вывода результата", "error", err)
	}
	if callErr != nil {
		return &exitError{code: constants.ExitTargetFailed, err: callErr}
	}
	return nil
}

func bootstrapFailed(stderr io.Writer, err error) error {
	fmt.Fprintf(stderr, "%s: %v\n", constants.AppName, err)
	return &exitError{code: constants.ExitBootstrapFailed, err: err}
}
