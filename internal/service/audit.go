// audit.go — журнал доступа. Запись никогда не ломает основную операцию.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
	"github.com/bigkaa/goartstore/wsimagenes/internal/requestid"
)

var auditFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wi_audit_failures_total",
	Help: "Количество неудачных записей в журнал доступа.",
})

// AuditService пишет записи log_accesos.
type AuditService struct {
	repo   repository.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditService создаёт AuditService.
func NewAuditService(repo repository.AuditRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.With(slog.String("component", "audit")),
		now:    time.Now,
	}
}

// AuditRecord — параметры одной записи журнала. Пустые строки пишутся как NULL.
type AuditRecord struct {
	Operation     string
	TicketToken   string
	DocumentID    *int64
	SearchKey     string
	OriginAddress string
	Succeeded     bool
	ErrorDetail   string
}

// Record сохраняет запись. Ошибки и паники хранилища только логируются.
func (s *AuditService) Record(ctx context.Context, rec AuditRecord) {
	defer func() {
		if r := recover(); r != nil {
			auditFailuresTotal.Inc()
			s.logger.Error("Паника при записи журнала доступа",
				slog.String("operation", rec.Operation),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	entry := &model.AuditEntry{
		TicketToken:   optional(rec.TicketToken),
		DocumentID:    rec.DocumentID,
		Operation:     rec.Operation,
		SearchKey:     optional(rec.SearchKey),
		OriginAddress: optional(rec.OriginAddress),
		Succeeded:     rec.Succeeded,
		ErrorDetail:   optional(rec.ErrorDetail),
		RequestID:     requestid.Ensure(ctx),
		OccurredAt:    s.now(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		auditFailuresTotal.Inc()
		s.logger.Warn("Ошибка записи журнала доступа",
			slog.String("operation", rec.Operation),
			slog.String("request_id", entry.RequestID),
			slog.String("error", err.Error()),
		)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
