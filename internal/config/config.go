// Package config загружает конфигурацию logon из YAML-файла и переменных
// окружения LOGON_* через cleanenv.
//
// Приоритет: переменные окружения > YAML > значения по умолчанию.
//
// Булевы поля со значением по умолчанию true не имеют тега env-default:
// cleanenv подставляет default в нулевое поле и перезаписал бы явный
// `false` из YAML. Их значения задаёт Default(), с которого начинается Load.
package config

import "time"

// Config — корневая конфигурация приложения.
type Config struct {
	// Logger — настройки перехватчика: включение, проект, i18n, маскирование.
	Logger LoggerConfig `yaml:"logger"`

	// Sink — асинхронная очередь записей.
	Sink SinkConfig `yaml:"sink"`

	// Logging — транспорт slog (stderr/stdout/file).
	Logging LoggingConfig `yaml:"logging"`

	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Alerting AlertingConfig `yaml:"alerting"`

	// SQLSink — дополнительная запись в таблицу SQL Server.
	SQLSink SQLSinkConfig `yaml:"sqlSink"`

	// Path — файл, из которого загружена конфигурация. Пуст при чтении
	// только из окружения.
	Path string `yaml:"-"`
}

// LoggerConfig — конфигурационная поверхность перехватчика.
type LoggerConfig struct {
	// Enabled — глобальный выключатель. При false вызовы проходят без записей.
	Enabled bool `yaml:"enabled" env:"LOGON_ENABLED"`

	// ProjectName — метка проекта в каждой записи.
	ProjectName string `yaml:"projectName" env:"LOGON_PROJECT_NAME" env-default:"logon"`

	// EnableI18n переключает тексты на локализованный каталог.
	EnableI18n bool `yaml:"enableI18n" env:"LOGON_ENABLE_I18N" env-default:"false"`

	// Locale — BCP 47 тег локали каталога (en, pt-BR, ru).
	Locale string `yaml:"locale" env:"LOGON_LOCALE" env-default:"en"`

	// CatalogPath — YAML-каталог сообщений. Пусто — встроенный каталог.
	CatalogPath string `yaml:"catalogPath" env:"LOGON_CATALOG_PATH"`

	// SensitiveKeys — имена полей, значения которых маскируются.
	SensitiveKeys []string `yaml:"sensitiveKeys" env:"LOGON_SENSITIVE_KEYS" env-separator:"," env-default:"password,token,secret,authorization"`

	// MaskingEnabled — глобальный выключатель маскирования.
	MaskingEnabled bool `yaml:"maskingEnabled" env:"LOGON_MASKING_ENABLED"`

	// Watch — перечитывать секцию logger при изменении файла конфигурации.
	Watch bool `yaml:"watch" env:"LOGON_WATCH_CONFIG" env-default:"false"`
}

// SinkConfig — настройки асинхронного sink'а.
type SinkConfig struct {
	// QueueSize — ёмкость очереди; 0 — без ограничения.
	QueueSize int `yaml:"queueSize" env:"LOGON_SINK_QUEUE_SIZE" env-default:"0"`

	// Overflow — поведение переполненной очереди: "grow" или "drop-oldest".
	Overflow string `yaml:"overflow" env:"LOGON_SINK_OVERFLOW" env-default:"grow"`

	// WriteTimeout ограничивает запись одной записи в один транспорт.
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"LOGON_SINK_WRITE_TIMEOUT" env-default:"5s"`

	// ShutdownTimeout ограничивает дренаж очереди при остановке.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"LOGON_SINK_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LoggingConfig — настройки slog-транспорта (internal/pkg/logging).
type LoggingConfig struct {
	Level      string `yaml:"level" env:"LOGON_LOG_LEVEL" env-default:"info"`
	Format     string `yaml:"format" env:"LOGON_LOG_FORMAT" env-default:"text"`
	Output     string `yaml:"output" env:"LOGON_LOG_OUTPUT" env-default:"stderr"`
	FilePath   string `yaml:"filePath" env:"LOGON_LOG_FILE_PATH" env-default:"/var/log/logon.log"`
	MaxSize    int    `yaml:"maxSize" env:"LOGON_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int    `yaml:"maxBackups" env:"LOGON_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `yaml:"maxAge" env:"LOGON_LOG_MAX_AGE" env-default:"7"`
	Compress   bool   `yaml:"compress" env:"LOGON_LOG_COMPRESS"`
}

// MetricsConfig — настройки Prometheus.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"LOGON_METRICS_ENABLED" env-default:"false"`
	PushgatewayURL string        `yaml:"pushgatewayUrl" env:"LOGON_METRICS_PUSHGATEWAY_URL"`
	JobName        string        `yaml:"jobName" env:"LOGON_METRICS_JOB_NAME" env-default:"logon"`
	Timeout        time.Duration `yaml:"timeout" env:"LOGON_METRICS_TIMEOUT" env-default:"10s"`
	InstanceLabel  string        `yaml:"instanceLabel" env:"LOGON_METRICS_INSTANCE"`
}

// TracingConfig — настройки OpenTelemetry.
type TracingConfig struct {
	Enabled      bool          `yaml:"enabled" env:"LOGON_TRACING_ENABLED" env-default:"false"`
	Endpoint     string        `yaml:"endpoint" env:"LOGON_TRACING_ENDPOINT"`
	ServiceName  string        `yaml:"serviceName" env:"LOGON_TRACING_SERVICE_NAME" env-default:"logon"`
	Environment  string        `yaml:"environment" env:"LOGON_TRACING_ENVIRONMENT" env-default:"production"`
	Insecure     bool          `yaml:"insecure" env:"LOGON_TRACING_INSECURE" env-default:"false"`
	Timeout      time.Duration `yaml:"timeout" env:"LOGON_TRACING_TIMEOUT" env-default:"5s"`
	SamplingRate float64       `yaml:"samplingRate" env:"LOGON_TRACING_SAMPLING_RATE" env-default:"1.0"`
}

// AlertingConfig — алерты о неуспешных вызовах через webhook.
type AlertingConfig struct {
	Enabled         bool          `yaml:"enabled" env:"LOGON_ALERTING_ENABLED" env-default:"false"`
	RateLimitWindow time.Duration `yaml:"rateLimitWindow" env:"LOGON_ALERTING_RATE_LIMIT_WINDOW" env-default:"5m"`

	URLs []string `yaml:"urls" env:"LOGON_ALERTING_WEBHOOK_URLS" env-separator:","`

	// Headers задаются только в YAML: cleanenv не читает map из env.
	Headers map[string]string `yaml:"headers"`

	Timeout    time.Duration `yaml:"timeout" env:"LOGON_ALERTING_WEBHOOK_TIMEOUT" env-default:"10s"`
	MaxRetries int           `yaml:"maxRetries" env:"LOGON_ALERTING_WEBHOOK_MAX_RETRIES" env-default:"3"`

	MinSeverity       string   `yaml:"minSeverity" env:"LOGON_ALERTING_MIN_SEVERITY" env-default:"INFO"`
	// IncludeCodes/ExcludeCodes фильтруют по типу отказа (IllegalArgument, panic, ...).
	IncludeCodes      []string `yaml:"includeCodes" env:"LOGON_ALERTING_INCLUDE_CODES" env-separator:","`
	ExcludeCodes      []string `yaml:"excludeCodes" env:"LOGON_ALERTING_EXCLUDE_CODES" env-separator:","`
	IncludeComponents []string `yaml:"includeComponents" env:"LOGON_ALERTING_INCLUDE_COMPONENTS" env-separator:","`
	ExcludeComponents []string `yaml:"excludeComponents" env:"LOGON_ALERTING_EXCLUDE_COMPONENTS" env-separator:","`
}

// SQLSinkConfig — запись логов в таблицу SQL Server.
type SQLSinkConfig struct {
	Enabled  bool          `yaml:"enabled" env:"LOGON_SQL_ENABLED" env-default:"false"`
	Server   string        `yaml:"server" env:"LOGON_SQL_SERVER"`
	Port     int           `yaml:"port" env:"LOGON_SQL_PORT" env-default:"1433"`
	User     string        `yaml:"user" env:"LOGON_SQL_USER"`
	Password string        `yaml:"password" env:"LOGON_SQL_PASSWORD"`
	Database string        `yaml:"database" env:"LOGON_SQL_DATABASE" env-default:"master"`
	Table    string        `yaml:"table" env:"LOGON_SQL_TABLE" env-default:"dbo.invocation_log"`
	Timeout  time.Duration `yaml:"timeout" env:"LOGON_SQL_TIMEOUT" env-default:"30s"`
	Encrypt  bool          `yaml:"encrypt" env:"LOGON_SQL_ENCRYPT"`

	// ConnectAttempts — попытки подключения при старте.
	ConnectAttempts int `yaml:"connectAttempts" env:"LOGON_SQL_CONNECT_ATTEMPTS" env-default:"3"`
}

// Default возвращает конфигурацию со значениями по умолчанию без чтения
// файла и окружения. Значения совпадают с env-default тегами.
func Default() *Config {
	return &Config{
		Logger: LoggerConfig{
			Enabled:        true,
			ProjectName:    "logon",
			Locale:         "en",
			SensitiveKeys:  []string{"password", "token", "secret", "authorization"},
			MaskingEnabled: true,
		},
		Sink: SinkConfig{
			Overflow:        OverflowGrow,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   "/var/log/logon.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Metrics: MetricsConfig{
			JobName: "logon",
			Timeout: 10 * time.Second,
		},
		Tracing: TracingConfig{
			ServiceName:  "logon",
			Environment:  "production",
			Timeout:      5 * time.Second,
			SamplingRate: 1.0,
		},
		Alerting: AlertingConfig{
			RateLimitWindow: 5 * time.Minute,
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			MinSeverity:     "INFO",
		},
		SQLSink: SQLSinkConfig{
			Port:     1433,
			Database: "master",
			Table:    "dbo.invocation_log",
			Timeout:  30 * time.Second,
			Encrypt:  true,

			ConnectAttempts: 3,
		},
	}
}

// Значения SinkConfig.Overflow.
const (
	OverflowGrow       = "grow"
	OverflowDropOldest = "drop-oldest"
)
