package logging

import "strings"

// Поддерживаемые форматы вывода логов.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Поддерживаемые уровни логирования.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Поддерживаемые направления вывода.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Значения по умолчанию. Используются в config.Default и ProvideLogger.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "/var/log/logon.log"
	DefaultMaxSize    = 100 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 7 // days
	DefaultCompress   = true
)

// Config описывает транспорт логов: формат, уровень и куда писать.
type Config struct {
	// Format: "json" или "text".
	Format string

	// Level: минимальный уровень ("debug", "info", "warn", "error").
	Level string

	// Output: "stderr", "stdout" или "file".
	Output string

	// FilePath используется только при Output == "file".
	FilePath string

	// Параметры ротации lumberjack.
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// withDefaults заполняет пустые поля значениями по умолчанию.
// Регистр format/level/output не важен.
func (c Config) withDefaults() Config {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxBackups < 0 {
		c.MaxBackups = DefaultMaxBackups
	}
	if c.MaxAge < 0 {
		c.MaxAge = DefaultMaxAge
	}
	return c
}

// IsValidLevel сообщает, поддерживается ли уровень.
func IsValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// IsValidFormat сообщает, поддерживается ли формат.
func IsValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON, FormatText:
		return true
	}
	return false
}

// IsValidOutput сообщает, поддерживается ли направление вывода.
func IsValidOutput(output string) bool {
	switch strings.ToLower(output) {
	case OutputStderr, OutputStdout, OutputFile:
		return true
	}
	return false
}
