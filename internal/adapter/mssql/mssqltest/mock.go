// Package mssqltest предоставляет мок-реализацию mssql.Client для тестов
// пакетов, которые подключают SQL-транспорт.
package mssqltest

import (
	"context"
	"sync"

	"github.com/Kargones/logon/internal/adapter/mssql"
	"github.com/Kargones/logon/internal/sink"
)

// Compile-time проверки реализации интерфейсов
var (
	_ mssql.Client            = (*MockClient)(nil)
	_ mssql.DatabaseConnector = (*MockClient)(nil)
	_ mssql.EntryWriter       = (*MockClient)(nil)
)

// MockClient — мок mssql.Client с функциональными полями.
// Без заданной функции методы возвращают nil, а Write запоминает запись.
type MockClient struct {
	ConnectFunc     func(ctx context.Context) error
	CloseFunc       func() error
	PingFunc        func(ctx context.Context) error
	EnsureTableFunc func(ctx context.Context) error
	WriteFunc       func(ctx context.Context, e sink.Entry) error

	mu      sync.Mutex
	written []sink.Entry
}

func (m *MockClient) Connect(ctx context.Context) error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockClient) EnsureTable(ctx context.Context) error {
	if m.EnsureTableFunc != nil {
		return m.EnsureTableFunc(ctx)
	}
	return nil
}

func (m *MockClient) Write(ctx context.Context, e sink.Entry) error {
	m.mu.Lock()
	m.written = append(m.written, e)
	m.mu.Unlock()
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, e)
	}
	return nil
}

func (m *MockClient) Name() string { return "mssql" }

// Written возвращает копию записанных записей.
func (m *MockClient) Written() []sink.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sink.Entry(nil), m.written...)
}
