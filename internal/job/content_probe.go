// 文件路径: internal/job/content_probe.go
// 模块说明: 定期探测订单存储是否可达，结果写入 Prometheus gauge，状态变化时记录日志。
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

// ContentProbeJob pings the order store.
type ContentProbeJob struct {
	store   repository.HealthChecker
	logger  *slog.Logger
	up      prometheus.Gauge
	latency prometheus.Histogram

	mu      sync.Mutex
	checked bool
	healthy bool
}

// NewContentProbeJob registers its collectors on reg when reg is non-nil.
func NewContentProbeJob(store repository.HealthChecker, reg prometheus.Registerer, logger *slog.Logger) (*ContentProbeJob, error) {
	if store == nil {
		return nil, fmt.Errorf("content probe: store is required / 内容存储不能为空")
	}
	if logger == nil {
		logger = slog.Default()
	}
	j := &ContentProbeJob{
		store:  store,
		logger: logger.With("component", "content-probe"),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shopadmin",
			Subsystem: "content",
			Name:      "up",
			Help:      "Whether the last probe reached the order store (1) or not (0).",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shopadmin",
			Subsystem: "content",
			Name:      "probe_duration_seconds",
			Help:      "Order store probe latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{j.up, j.latency} {
			if err := reg.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if !errors.As(err, &already) {
					return nil, fmt.Errorf("register probe metrics: %w", err)
				}
			}
		}
	}
	return j, nil
}

// Name 返回任务标识。
func (j *ContentProbeJob) Name() string {
	return "content-probe"
}

// Run 执行一次探测。
func (j *ContentProbeJob) Run(ctx context.Context) error {
	start := time.Now()
	err := j.store.Ping(ctx)
	j.latency.Observe(time.Since(start).Seconds())

	healthy := err == nil
	if healthy {
		j.up.Set(1)
	} else {
		j.up.Set(0)
	}

	j.mu.Lock()
	changed := !j.checked || j.healthy != healthy
	j.checked, j.healthy = true, healthy
	j.mu.Unlock()

	if changed {
		if healthy {
			j.logger.InfoContext(ctx, "order store reachable")
		} else {
			j.logger.WarnContext(ctx, "order store unreachable", "error", err)
		}
	}
	if err != nil {
		return fmt.Errorf("ping order store: %w", err)
	}
	return nil
}

// Healthy reports the outcome of the last probe; false before the first one.
func (j *ContentProbeJob) Healthy() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.checked && j.healthy
}
