package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/pkg/apperrors"
	"github.com/Kargones/logon/internal/pkg/logging"
)

// Load читает конфигурацию: YAML-файл (если path не пуст), затем переменные
// окружения LOGON_*, затем env-default. Результат проверяется Validate.
//
// Ошибки возвращаются как *apperrors.AppError с кодами CONFIG.LOAD_FAILED и
// CONFIG.VALIDATION_FAILED.
func Load(path string) (*Config, error) {
	cfg := *Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("файл конфигурации недоступен: %s", path), err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("не удалось прочитать файл конфигурации %s", path), err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Path = path
	return &cfg, nil
}

// Validate проверяет согласованность секций. Все найденные проблемы
// объединяются в одну ошибку CONFIG.VALIDATION_FAILED.
func (c *Config) Validate() error {
	var errs []error

	if _, err := language.Parse(c.Logger.Locale); err != nil {
		errs = append(errs, fmt.Errorf("logger.locale %q: %w", c.Logger.Locale, err))
	}

	if c.Sink.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("sink.queueSize не может быть отрицательным: %d", c.Sink.QueueSize))
	}
	if c.Sink.Overflow != OverflowGrow && c.Sink.Overflow != OverflowDropOldest {
		errs = append(errs, fmt.Errorf("sink.overflow: ожидается %q или %q, получено %q",
			OverflowGrow, OverflowDropOldest, c.Sink.Overflow))
	}
	if c.Sink.WriteTimeout <= 0 {
		errs = append(errs, errors.New("sink.writeTimeout должен быть положительным"))
	}
	if c.Sink.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("sink.shutdownTimeout должен быть положительным"))
	}

	if !logging.IsValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: неизвестный уровень %q", c.Logging.Level))
	}
	if !logging.IsValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format: неизвестный формат %q", c.Logging.Format))
	}
	if !logging.IsValidOutput(c.Logging.Output) {
		errs = append(errs, fmt.Errorf("logging.output: неизвестный вывод %q", c.Logging.Output))
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing.endpoint обязателен при включённой трассировке"))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.samplingRate вне диапазона [0, 1]: %v", c.Tracing.SamplingRate))
	}

	if c.Alerting.Enabled && len(c.Alerting.URLs) == 0 {
		errs = append(errs, errors.New("alerting.urls обязателен при включённом алертинге"))
	}

	if c.SQLSink.Enabled && c.SQLSink.Server == "" {
		errs = append(errs, errors.New("sqlSink.server обязателен при включённой записи в SQL"))
	}

	if len(errs) == 0 {
		return nil
	}
	return apperrors.NewAppError(apperrors.ErrConfigValidate,
		"некорректная конфигурация", errors.Join(errs...))
}
