package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 调查计划操作数
	scheduleOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_operations_total",
			Help: "Total number of schedule operations",
		},
		[]string{"action"}, // create, update, delete, clone
	)

	// 区块操作数
	blockOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "block_operations_total",
			Help: "Total number of block operations",
		},
		[]string{"action", "mode"}, // mode 仅在 create 时为 template/custom
	)

	// 当前调查计划数
	schedulesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedules_total",
			Help: "Number of schedules currently held",
		},
	)

	// 未提交的区块草稿数
	draftsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "block_drafts_active",
			Help: "Number of open block drafts",
		},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(scheduleOperationsTotal)
	prometheus.MustRegister(blockOperationsTotal)
	prometheus.MustRegister(schedulesTotal)
	prometheus.MustRegister(draftsActive)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordScheduleOperation 记录调查计划操作
func RecordScheduleOperation(action string) {
	scheduleOperationsTotal.WithLabelValues(action).Inc()
}

// RecordBlockOperation 记录区块操作
func RecordBlockOperation(action, mode string) {
	blockOperationsTotal.WithLabelValues(action, mode).Inc()
}

// SetSchedules 更新调查计划数
func SetSchedules(count int) {
	schedulesTotal.Set(float64(count))
}

// SetActiveDrafts 更新草稿数
func SetActiveDrafts(count int) {
	draftsActive.Set(float64(count))
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}
