package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

const (
	MetricAPIRequest    = "boutique_api_requests"
	MetricOrderCreated  = "boutique_orders_created"
	MetricOrderFallback = "boutique_orders_fallback"
	MetricSystemCPU     = "boutique_system_cpu"
	MetricSystemMem     = "boutique_system_mem"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the embedded time-series store under the workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// Gauge records a single data point for the metric.
func Gauge(metric string, value float64) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{{
		Metric:    metric,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
}

// Incr records a counter tick for the metric.
func Incr(metric string) {
	Gauge(metric, 1)
}

// Select returns data points for a metric within [start, end].
func Select(metric string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return nil, nil
	}
	return s.Select(metric, nil, start, end)
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
