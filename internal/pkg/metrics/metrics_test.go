package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logtest "github.com/Kargones/logon/internal/pkg/testutil"
)

func enabledConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.InstanceLabel = "test-host"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"отключены", func(c *Config) { c.Enabled = false; c.JobName = "" }, nil},
		{"без pushgateway", func(*Config) {}, nil},
		{"валидный URL", func(c *Config) { c.PushgatewayURL = "http://pushgateway:9091" }, nil},
		{"URL без host", func(c *Config) { c.PushgatewayURL = "pushgateway" }, ErrPushgatewayURLInvalid},
		{"нет job", func(c *Config) { c.JobName = "" }, ErrJobNameRequired},
		{"нулевой таймаут", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := enabledConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestNewCollector(t *testing.T) {
	c, err := NewCollector(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.IsType(t, &NopCollector{}, c)

	c, err = NewCollector(enabledConfig(), nil)
	require.NoError(t, err)
	assert.IsType(t, &PrometheusCollector{}, c)

	bad := enabledConfig()
	bad.JobName = ""
	_, err = NewCollector(bad, nil)
	assert.ErrorIs(t, err, ErrJobNameRequired)
}

func TestPrometheusCollector_Records(t *testing.T) {
	c, err := NewPrometheusCollector(enabledConfig(), nil)
	require.NoError(t, err)

	c.RecordInvocation("UserService", "A", 5*time.Millisecond, true)
	c.RecordInvocation("UserService", "A", time.Millisecond, true)
	c.RecordInvocation("UserController", "FilterUsers", time.Millisecond, false)
	c.RecordProviderFallback("entry")
	c.RecordSinkDropped(DropReasonOverflow)
	c.RecordSinkDropped(DropReasonOverflow)
	c.RecordSinkFault("mssql")
	c.SetSinkQueueDepth(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.invocations.WithLabelValues("UserService", "A", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invocations.WithLabelValues("UserController", "FilterUsers", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.providerFallbacks.WithLabelValues("entry")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.sinkDropped.WithLabelValues(DropReasonOverflow)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sinkFaults.WithLabelValues("mssql")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.sinkQueueDepth))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "logon_invocation_duration_seconds")
	assert.Contains(t, names, "logon_invocations_total")
	assert.Contains(t, names, "logon_sink_queue_depth")
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeLabel("a\nb"))
	long := strings.Repeat("я", maxLabelLength+10)
	assert.Equal(t, maxLabelLength, len([]rune(sanitizeLabel(long))))
}

func TestPrometheusCollector_Push(t *testing.T) {
	var requests atomic.Int32
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		path.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := enabledConfig()
	cfg.PushgatewayURL = srv.URL
	logger := logtest.NewRecordingLogger()
	c, err := NewPrometheusCollector(cfg, logger)
	require.NoError(t, err)
	c.RecordInvocation("c", "m", time.Millisecond, true)

	require.NoError(t, c.Push(context.Background()))
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, "/metrics/job/logon/instance/test-host", path.Load())
	assert.NotEmpty(t, logger.Messages("info"))
}

func TestPrometheusCollector_PushFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := enabledConfig()
	cfg.PushgatewayURL = srv.URL
	logger := logtest.NewRecordingLogger()
	c, err := NewPrometheusCollector(cfg, logger)
	require.NoError(t, err)

	assert.NoError(t, c.Push(context.Background()))
	assert.NotEmpty(t, logger.Messages("error"))
}

func TestPrometheusCollector_PushSkipped(t *testing.T) {
	c, err := NewPrometheusCollector(enabledConfig(), nil)
	require.NoError(t, err)
	assert.NoError(t, c.Push(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := enabledConfig()
	cfg.PushgatewayURL = "http://127.0.0.1:1"
	c, err = NewPrometheusCollector(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, c.Push(ctx))
}

func TestNopCollector(t *testing.T) {
	var c Collector = NewNopCollector()
	assert.NotPanics(t, func() {
		c.RecordInvocation("c", "m", time.Second, false)
		c.RecordProviderFallback("exit")
		c.RecordSinkDropped(DropReasonClosed)
		c.RecordSinkFault("w")
		c.SetSinkQueueDepth(1)
	})
	assert.NoError(t, c.Push(context.Background()))
	assert.IsType(t, &NopCollector{}, OrNop(nil))
	assert.Same(t, c, OrNop(c))
}
