package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	// blank import для драйвера SQL Server
	_ "github.com/denisenkom/go-mssqldb"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/Kargones/logon/internal/pkg/urlutil"
	"github.com/Kargones/logon/internal/sink"
)

// Значения по умолчанию.
const (
	DefaultPort     = 1433
	DefaultDatabase = "master"
	DefaultTable    = "dbo.invocation_log"
	DefaultTimeout  = 30 * time.Second

	DefaultConnectAttempts = 3
	DefaultRetryDelay      = 200 * time.Millisecond
)

// openDB открывает пул соединений. Подменяется в тестах.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("sqlserver", dsn)
}

// Compile-time проверка реализации интерфейса
var _ Client = (*Writer)(nil)

// tablePattern допускает [база.]схема.таблица или таблица из идентификаторов
// без кавычек. Имя подставляется в SQL, поэтому других форм нет.
var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// Options содержит параметры транспорта.
type Options struct {
	// Server — адрес сервера MSSQL
	Server string
	// Port — порт сервера (по умолчанию 1433)
	Port     int
	User     string
	Password string
	// Database — имя базы данных (по умолчанию "master")
	Database string
	// Table — таблица журнала, например dbo.invocation_log
	Table string
	// Timeout — таймаут подключения
	Timeout time.Duration
	// ConnectAttempts — число попыток ping в Connect (по умолчанию 3)
	ConnectAttempts int
	// RetryDelay — начальная пауза между попытками, растёт экспоненциально
	RetryDelay time.Duration
	// Encrypt — TLS шифрование. NewWriter всегда включает его;
	// для явного отключения используйте NewWriterWithEncrypt.
	Encrypt bool

	encryptSet bool
}

// Writer — транспорт sink.Writer поверх таблицы SQL Server.
type Writer struct {
	db     *sql.DB
	opts   Options
	table  string
	insert string
}

// NewWriter проверяет параметры и создаёт Writer.
// Соединение устанавливается через Connect.
func NewWriter(opts Options) (*Writer, error) {
	if opts.Server == "" {
		return nil, fmt.Errorf("%s: server is required", ErrMSSQLConfig)
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("%s: invalid port %d, must be between 1 and 65535", ErrMSSQLConfig, opts.Port)
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConnectAttempts <= 0 {
		opts.ConnectAttempts = DefaultConnectAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if !opts.encryptSet {
		opts.Encrypt = true
	}

	table, err := quoteTable(opts.Table)
	if err != nil {
		return nil, err
	}

	return &Writer{
		opts:  opts,
		table: table,
		insert: "INSERT INTO " + table +
			" (logged_at, severity, message, trace_id, call_id, component, method, event)" +
			" VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8);",
	}, nil
}

// NewWriterWithEncrypt создаёт Writer с явным режимом шифрования.
func NewWriterWithEncrypt(opts Options, encrypt bool) (*Writer, error) {
	opts.Encrypt = encrypt
	opts.encryptSet = true
	return NewWriter(opts)
}

// quoteTable проверяет имя таблицы и возвращает его в форме [схема].[таблица].
func quoteTable(name string) (string, error) {
	if !tablePattern.MatchString(name) {
		return "", fmt.Errorf("%s: invalid table name %q", ErrMSSQLConfig, name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "[" + p + "]"
	}
	return strings.Join(parts, "."), nil
}

// DSN возвращает строку подключения в URL-форме sqlserver://.
// Учётные данные экранируются net/url.
func (w *Writer) DSN() string {
	encryptMode := "true"
	if !w.opts.Encrypt {
		encryptMode = "disable"
	}
	q := url.Values{}
	q.Set("database", w.opts.Database)
	q.Set("encrypt", encryptMode)
	q.Set("connection timeout", strconv.Itoa(int(w.opts.Timeout.Seconds())))

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(w.opts.Server, strconv.Itoa(w.opts.Port)),
		RawQuery: q.Encode(),
	}
	if w.opts.User != "" {
		u.User = url.UserPassword(w.opts.User, w.opts.Password)
	}
	return u.String()
}

// MaskedDSN возвращает DSN со скрытым паролем для логов.
func (w *Writer) MaskedDSN() string {
	return urlutil.MaskDSN(w.DSN())
}

// Table возвращает экранированное имя таблицы журнала.
func (w *Writer) Table() string {
	return w.table
}

// Name возвращает имя транспорта для метрик.
func (w *Writer) Name() string { return "mssql" }

// Connect устанавливает соединение с сервером MSSQL. Ping повторяется
// ConnectAttempts раз с экспоненциальной паузой, пока не истёк ctx.
func (w *Writer) Connect(ctx context.Context) error {
	db, err := openDB(w.DSN())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMSSQLConnect, err)
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   w.opts.ConnectAttempts,
		InitialDelay:  w.opts.RetryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err = r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close() //nolint:errcheck // исходная ошибка важнее
		if ctx.Err() != nil {
			return fmt.Errorf("%s: context cancelled during ping: %w", ErrMSSQLConnect, ctx.Err())
		}
		return fmt.Errorf("%s: ping failed: %w", ErrMSSQLConnect, err)
	}

	w.db = db
	return nil
}

// Close закрывает соединение с сервером.
func (w *Writer) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}

// Ping проверяет доступность сервера.
func (w *Writer) Ping(ctx context.Context) error {
	if w.db == nil {
		return fmt.Errorf("%s: connection not established", ErrMSSQLConnect)
	}
	if err := w.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMSSQLConnect, err)
	}
	return nil
}

// EnsureTable создаёт таблицу журнала, если её нет.
func (w *Writer) EnsureTable(ctx context.Context) error {
	if w.db == nil {
		return fmt.Errorf("%s: connection not established", ErrMSSQLWrite)
	}
	query := `
	IF OBJECT_ID(@p1, 'U') IS NULL
	CREATE TABLE ` + w.table + ` (
		id         BIGINT IDENTITY(1,1) PRIMARY KEY,
		logged_at  DATETIME2      NOT NULL,
		severity   VARCHAR(16)    NOT NULL,
		message    NVARCHAR(MAX)  NOT NULL,
		trace_id   VARCHAR(64)    NULL,
		call_id    CHAR(36)       NULL,
		component  NVARCHAR(256)  NULL,
		method     NVARCHAR(256)  NULL,
		event      VARCHAR(16)    NULL
	);`
	if _, err := w.db.ExecContext(ctx, query, w.opts.Table); err != nil {
		return fmt.Errorf("%s: create table: %w", ErrMSSQLWrite, err)
	}
	return nil
}

// Write вставляет запись в таблицу журнала параметризованным запросом.
func (w *Writer) Write(ctx context.Context, e sink.Entry) error {
	if w.db == nil {
		return fmt.Errorf("%s: connection not established", ErrMSSQLWrite)
	}
	_, err := w.db.ExecContext(ctx, w.insert,
		e.Time.UTC(),
		e.Severity.String(),
		e.Message,
		nullable(e.Attr(sink.AttrTraceID)),
		nullable(e.Attr(sink.AttrCallID)),
		nullable(e.Attr(sink.AttrComponent)),
		nullable(e.Attr(sink.AttrMethod)),
		nullable(e.Attr(sink.AttrEvent)),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: insert timed out: %w", ErrMSSQLTimeout, err)
		}
		return fmt.Errorf("%s: %w", ErrMSSQLWrite, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
