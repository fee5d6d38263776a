package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Pinger は依存先の疎通確認です。pgxpool.Pool が満たします。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker はデータベースとホストの状態を報告します。
type HealthChecker struct {
	db      Pinger
	timeout time.Duration
	memory  func() (*mem.VirtualMemoryStat, error)
}

// NewHealthChecker は HealthChecker を生成します。
func NewHealthChecker(db Pinger) *HealthChecker {
	return &HealthChecker{db: db, timeout: 2 * time.Second, memory: mem.VirtualMemory}
}

// HealthStatus はヘルスチェックの結果です。
type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Memory   *MemoryHealth  `json:"memory,omitempty"`
}

// DatabaseHealth はデータベースの疎通結果です。
type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// MemoryHealth はホストのメモリ使用状況です。
type MemoryHealth struct {
	UsedPercent float64 `json:"used_percent"`
	TotalBytes  uint64  `json:"total_bytes"`
}

// Check はデータベースへ疎通確認し、取得できればホストのメモリ使用率を添えて返します。
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	db := DatabaseHealth{Status: statusHealthy, ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		db.Status = statusUnhealthy
	}

	out := HealthStatus{Status: db.Status, Database: db}
	if vm, err := h.memory(); err == nil {
		out.Memory = &MemoryHealth{UsedPercent: vm.UsedPercent, TotalBytes: vm.Total}
	}
	return out
}

// NewOpsRouter は /healthz, /readyz, /metrics を提供するルーターを生成します。
func NewOpsRouter(health *HealthChecker, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": statusHealthy})
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		result := health.Check(req.Context())
		code := http.StatusOK
		if result.Status != statusHealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, result)
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
