package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// AuditRepository — запись журнала доступа log_accesos.
type AuditRepository interface {
	Insert(ctx context.Context, e *model.AuditEntry) error
}

// auditRepo — реализация AuditRepository через pgx.
type auditRepo struct {
	db DBTX
}

// NewAuditRepository создаёт репозиторий журнала доступа.
func NewAuditRepository(db DBTX) AuditRepository {
	return &auditRepo{db: db}
}

// Insert добавляет запись. nil-поля пишутся как NULL.
func (r *auditRepo) Insert(ctx context.Context, e *model.AuditEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO log_accesos (id_ticket, id_documento, operacion, llave_busqueda,
			fecha_hora, ip_origen, exitoso, mensaje_error, request_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.TicketToken, e.DocumentID, e.Operation, e.SearchKey,
		e.OccurredAt, e.OriginAddress, e.Succeeded, e.ErrorDetail, e.RequestID,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи журнала доступа: %w", err)
	}
	return nil
}
