package metrics

import (
	"github.com/Kargones/logon/internal/pkg/logging"
)

// NewCollector создаёт Collector: NopCollector при Enabled=false,
// иначе PrometheusCollector.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}
