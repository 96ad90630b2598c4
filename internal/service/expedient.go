// expedient.go — поиск экспедиента по ключу (ContestaExpedientexLlave).
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// Resolver — выбор источника и получение документов.
// Реализуется Router.
type Resolver interface {
	Route(ctx context.Context, rawKey string, docType int) (model.ResultSet, RoutingDecision, error)
}

// TicketClassifier — проверка предъявленного билета.
// Реализуется TicketAuthority.
type TicketClassifier interface {
	Classify(ctx context.Context, t *model.Ticket) model.TicketState
}

// LookupRequest — параметры поиска экспедиента.
type LookupRequest struct {
	Ticket        *model.Ticket
	SearchKey     string
	ProjectID     int
	ExpedientID   int
	DocTypeID     int
	OriginAddress string
}

// LookupResult — найденные документы и решение маршрутизатора.
type LookupResult struct {
	Documents model.ResultSet
	Decision  RoutingDecision
}

// ExpedientService — поиск документов экспедиента.
type ExpedientService struct {
	tickets  TicketClassifier
	resolver Resolver
	audit    *AuditService
	logger   *slog.Logger
}

// NewExpedientService создаёт ExpedientService.
func NewExpedientService(tickets TicketClassifier, resolver Resolver, audit *AuditService, logger *slog.Logger) *ExpedientService {
	return &ExpedientService{
		tickets:  tickets,
		resolver: resolver,
		audit:    audit,
		logger:   logger.With(slog.String("component", "expedient")),
	}
}

// Lookup проверяет билет и возвращает документы ключа.
//
// Ошибки: ErrTicketExpired, ErrTicketInvalid, ErrEmptyKey, ErrInvalidKey,
// ErrSourceUnavailable, ErrNotFound (пустой результат).
// Каждый исход попадает в журнал доступа.
func (s *ExpedientService) Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	rec := AuditRecord{
		Operation:     model.OperationExpedient,
		TicketToken:   ticketToken(req.Ticket),
		OriginAddress: req.OriginAddress,
	}

	switch s.tickets.Classify(ctx, req.Ticket) {
	case model.TicketValid:
	case model.TicketExpired:
		rec.ErrorDetail = "Ticket expirado (2052)"
		s.audit.Record(ctx, rec)
		return nil, ErrTicketExpired
	default:
		rec.ErrorDetail = "Ticket inválido (2053)"
		s.audit.Record(ctx, rec)
		return nil, ErrTicketInvalid
	}

	if strings.TrimSpace(req.SearchKey) == "" {
		rec.ErrorDetail = "Llave vacía"
		s.audit.Record(ctx, rec)
		return nil, ErrEmptyKey
	}
	rec.SearchKey = req.SearchKey

	docs, decision, err := s.resolver.Route(ctx, req.SearchKey, req.DocTypeID)
	if err != nil {
		rec.ErrorDetail = err.Error()
		s.audit.Record(ctx, rec)
		if !errors.Is(err, ErrInvalidKey) {
			s.logger.Error("Ошибка поиска экспедиента",
				slog.String("key", req.SearchKey),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	if len(docs) == 0 {
		rec.ErrorDetail = "No se encontró el expediente"
		s.audit.Record(ctx, rec)
		return nil, ErrNotFound
	}

	rec.Succeeded = true
	rec.DocumentID = docs.FirstID()
	s.audit.Record(ctx, rec)

	return &LookupResult{Documents: docs, Decision: decision}, nil
}

func ticketToken(t *model.Ticket) string {
	if t == nil {
		return ""
	}
	return t.Token
}
