package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Kargones/logon/internal/constants"
	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/urlutil"
)

// HTTPClient — минимальный интерфейс http.Client, подменяемый в тестах.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBodySize ограничивает чтение тела ответа для диагностики.
const maxResponseBodySize = 1024

// maxBackoff — верхняя граница паузы между повторами.
const maxBackoff = 4 * time.Second

// WebhookAlerter отправляет алерты JSON POST-запросом на каждый URL.
type WebhookAlerter struct {
	config     WebhookConfig
	logger     logging.Logger
	httpClient HTTPClient
	hostname   string
	backoff    time.Duration
}

// WebhookPayload — тело запроса webhook.
type WebhookPayload struct {
	Code      string    `json:"code"`
	Component string    `json:"component"`
	Method    string    `json:"method"`
	Message   string    `json:"message"`
	TraceID   string    `json:"trace_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	Source    string    `json:"source"`
	Hostname  string    `json:"hostname,omitempty"`
}

// httpError — ответ с не-2xx статусом.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// NewWebhookAlerter создаёт WebhookAlerter. Конфигурация должна быть провалидирована.
func NewWebhookAlerter(config WebhookConfig, logger logging.Logger) *WebhookAlerter {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &WebhookAlerter{
		config:     config,
		logger:     logging.OrNop(logger),
		httpClient: &http.Client{Timeout: timeout},
		hostname:   hostname,
		backoff:    time.Second,
	}
}

// SetHTTPClient подменяет HTTP-клиент (для тестирования).
func (w *WebhookAlerter) SetHTTPClient(client HTTPClient) {
	w.httpClient = client
}

// Send отправляет алерт на все URL. Ошибки логируются, возвращается nil.
func (w *WebhookAlerter) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(w.payload(alert))
	if err != nil {
		w.logger.Error("не удалось сериализовать алерт", "error", err.Error(), "code", alert.Code)
		return nil
	}

	delivered := 0
	for i, target := range w.config.URLs {
		if ctx.Err() != nil {
			w.logger.Debug("отправка алерта отменена",
				"code", alert.Code,
				"remaining_urls", len(w.config.URLs)-i,
			)
			return nil
		}
		if err := w.sendWithRetry(ctx, target, body); err != nil {
			w.logger.Error("ошибка отправки webhook алерта",
				"error", err.Error(),
				"url", urlutil.MaskURL(target),
				"code", alert.Code,
			)
			continue
		}
		delivered++
	}

	if delivered == 0 && len(w.config.URLs) > 0 {
		w.logger.Warn("алерт не доставлен ни на один URL",
			"code", alert.Code,
			"urls_total", len(w.config.URLs),
		)
		return nil
	}
	w.logger.Debug("webhook алерт отправлен",
		"code", alert.Code,
		"component", alert.Component,
		"method", alert.Method,
		"urls_success", delivered,
	)
	return nil
}

func (w *WebhookAlerter) payload(alert Alert) WebhookPayload {
	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return WebhookPayload{
		Code:      alert.Code,
		Component: alert.Component,
		Method:    alert.Method,
		Message:   alert.Message,
		TraceID:   alert.TraceID,
		Timestamp: ts.UTC(),
		Severity:  alert.Severity.String(),
		Source:    constants.AppName,
		Hostname:  w.hostname,
	}
}

// sendWithRetry повторяет сетевые ошибки и 5xx с экспоненциальной паузой.
// 4xx не повторяются.
func (w *WebhookAlerter) sendWithRetry(ctx context.Context, target string, body []byte) error {
	var lastErr error
	backoff := w.backoff
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			backoff = min(backoff*2, maxBackoff)
			w.logger.Debug("webhook retry",
				"attempt", attempt,
				"error", lastErr.Error(),
				"url", urlutil.MaskURL(target),
			)
		}

		lastErr = w.send(ctx, target, body)
		if lastErr == nil {
			return nil
		}
		if isClientHTTPError(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("все %d попыток неуспешны: %w", w.config.MaxRetries+1, lastErr)
}

func (w *WebhookAlerter) send(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)
	for key, value := range w.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize)) //nolint:errcheck // best-effort drain
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize)) //nolint:errcheck // только для диагностики
	return &httpError{StatusCode: resp.StatusCode, Body: string(data)}
}

func isClientHTTPError(err error) bool {
	var httpErr *httpError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500
}
