// Package constants содержит общие константы logon.
package constants

// Version — версия сборки. Задаётся при сборке:
//
//	go build -ldflags "-X github.com/Kargones/logon/internal/constants.Version=1.2.0" ./cmd/logon
var Version = "dev"

// AppName — имя приложения в метаданных (User-Agent, service.name, job).
const AppName = "logon"

// Коды завершения cmd/logon.
const (
	// ExitOK — целевой вызов завершился успешно.
	ExitOK = 0
	// ExitTargetFailed — целевой вызов вернул ошибку.
	ExitTargetFailed = 1
	// ExitBootstrapFailed — не удалось загрузить конфигурацию или собрать приложение.
	ExitBootstrapFailed = 2
)
