// Package mssql пишет записи перехватчика в таблицу Microsoft SQL Server.
//
// Интерфейсы разделены по назначению: DatabaseConnector управляет
// соединением, EntryWriter пишет записи. Композитный Client объединяет оба.
package mssql

import (
	"context"

	"github.com/Kargones/logon/internal/sink"
)

// Коды ошибок для MSSQL операций.
const (
	// ErrMSSQLConnect — ошибка подключения к серверу MSSQL
	ErrMSSQLConnect = "MSSQL.CONNECT_FAILED"
	// ErrMSSQLWrite — ошибка записи в таблицу журнала
	ErrMSSQLWrite = "MSSQL.WRITE_FAILED"
	// ErrMSSQLTimeout — превышено время ожидания операции
	ErrMSSQLTimeout = "MSSQL.TIMEOUT"
	// ErrMSSQLConfig — некорректные параметры подключения или имя таблицы
	ErrMSSQLConfig = "MSSQL.CONFIG_INVALID"
)

// DatabaseConnector предоставляет операции для подключения к серверу MSSQL.
type DatabaseConnector interface {
	// Connect устанавливает соединение с сервером MSSQL.
	Connect(ctx context.Context) error
	// Close закрывает соединение с сервером.
	Close() error
	// Ping проверяет доступность сервера.
	Ping(ctx context.Context) error
}

// EntryWriter пишет записи в таблицу журнала.
type EntryWriter interface {
	// EnsureTable создаёт таблицу журнала, если её нет.
	EnsureTable(ctx context.Context) error
	sink.Writer
}

// Client — композитный интерфейс, объединяющий все операции MSSQL.
type Client interface {
	DatabaseConnector
	EntryWriter
}
