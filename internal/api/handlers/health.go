// health.go — обработчики health endpoints WsImagenes.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL, при наличии Redis и JWKS)
// /metrics — Prometheus метрики
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
}

const serviceName = "wsimagenes"

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker    ReadinessChecker
	redisChecker ReadinessChecker
	jwksChecker  ReadinessChecker
	promHandler  http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// pgChecker — проверка PostgreSQL (может быть nil — readiness вернёт "fail").
// redisChecker и jwksChecker необязательны: nil исключает проверку из ответа.
func NewHealthHandler(pgChecker, redisChecker, jwksChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		pgChecker:    pgChecker,
		redisChecker: redisChecker,
		jwksChecker:  jwksChecker,
		promHandler:  promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult  `json:"postgresql"`
		Redis      *healthCheckResult `json:"redis,omitempty"`
		JWKS       *healthCheckResult `json:"jwks,omitempty"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет PostgreSQL и необязательные зависимости.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	// Проверяем PostgreSQL
	if h.pgChecker != nil {
		pgStatus, pgMsg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: pgStatus, Message: pgMsg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: statusFail, Message: "не инициализирован"}
	}

	statuses := []string{resp.Checks.PostgreSQL.Status}
	if h.redisChecker != nil {
		st, msg := h.redisChecker.CheckReady()
		resp.Checks.Redis = &healthCheckResult{Status: st, Message: msg}
		statuses = append(statuses, st)
	}
	if h.jwksChecker != nil {
		st, msg := h.jwksChecker.CheckReady()
		resp.Checks.JWKS = &healthCheckResult{Status: st, Message: msg}
		// Недоступный JWKS не блокирует legacy-клиентов: только degraded
		if st == statusFail {
			st = "degraded"
		}
		statuses = append(statuses, st)
	}

	// Определяем итоговый статус
	resp.Status = overallStatus(statuses...)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == statusFail {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// Константы статусов health check.
const statusFail = "fail"

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == statusFail {
			return statusFail
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
