// handler.go — основной обработчик API WsImagenes.
// Регистрирует маршруты на chi и делегирует запросы в сервисный слой.
// Бизнес-исходы отдаются с HTTP 200 в legacy-формате.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

// Заголовки транспорта.
const (
	HeaderTicketID        = "X-Ticket-ID"
	HeaderTicketExpiresAt = "X-Ticket-Expires-At"
	HeaderDocumentSource  = "X-Document-Source"
)

// AuthService — вход и выход.
type AuthService interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error)
	Logout(ctx context.Context, token, ip string)
}

// ExpedientService — поиск экспедиента по ключу.
type ExpedientService interface {
	Lookup(ctx context.Context, req service.LookupRequest) (*service.LookupResult, error)
}

// DocumentService — выдача документа по идентификатору.
type DocumentService interface {
	Fetch(ctx context.Context, ticket *model.Ticket, docID int64, origin string) (*model.Document, error)
}

// APIHandler — основной обработчик API WsImagenes.
type APIHandler struct {
	health     *HealthHandler
	auth       AuthService
	expedients ExpedientService
	documents  DocumentService
	legacyOpts config.Legacy
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	auth AuthService,
	expedients ExpedientService,
	documents DocumentService,
	legacyOpts config.Legacy,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		auth:       auth,
		expedients: expedients,
		documents:  documents,
		legacyOpts: legacyOpts,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// Routes регистрирует все маршруты.
func (h *APIHandler) Routes(r chi.Router) {
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
	r.Get("/metrics", h.health.GetMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/expedientes/search", h.SearchExpedient)
		r.Get("/documents/{doc_id}", h.GetDocument)
	})
}

// --- Тела запросов ---

// ticketBody — билет, предъявляемый клиентом.
type ticketBody struct {
	TicketID  string     `json:"ticket_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// toModel возвращает nil для отсутствующего билета.
func (t *ticketBody) toModel() *model.Ticket {
	if t == nil {
		return nil
	}
	m := &model.Ticket{Token: strings.TrimSpace(t.TicketID)}
	if t.ExpiresAt != nil {
		m.ExpiresAt = *t.ExpiresAt
	}
	return m
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// clientIP — адрес клиента из RemoteAddr без порта.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
