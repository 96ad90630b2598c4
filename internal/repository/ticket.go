package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// TicketRepository — хранилище сессионных билетов.
type TicketRepository interface {
	// Create сохраняет новый активный билет.
	Create(ctx context.Context, t *model.Ticket) error
	// IsActiveAndUnexpired проверяет, что билет существует, активен и не истёк.
	IsActiveAndUnexpired(ctx context.Context, token string) (bool, error)
	// Deactivate помечает билет неактивным. Отсутствующий билет — не ошибка.
	Deactivate(ctx context.Context, token string) error
}

// ticketRepo — реализация TicketRepository через pgx.
type ticketRepo struct {
	db DBTX
}

// NewTicketRepository создаёт репозиторий билетов в PostgreSQL.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepo{db: db}
}

// Create вставляет билет в таблицу tickets.
func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets (id_ticket, id_usuario, fecha_creacion, fecha_expiracion, ip_origen, activo)
		 VALUES ($1, $2, $3, $4, $5, true)`,
		t.Token, t.OwnerID, t.IssuedAt, t.ExpiresAt, t.OriginAddress,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания билета: %w", err)
	}
	return nil
}

// IsActiveAndUnexpired сравнивает срок с часами БД, а не приложения.
func (r *ticketRepo) IsActiveAndUnexpired(ctx context.Context, token string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM tickets
			WHERE id_ticket = $1 AND activo = true AND fecha_expiracion > now()
		)`, token,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки билета: %w", err)
	}
	return ok, nil
}

// Deactivate выставляет activo = false.
func (r *ticketRepo) Deactivate(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `UPDATE tickets SET activo = false WHERE id_ticket = $1`, token)
	if err != nil {
		return fmt.Errorf("ошибка деактивации билета: %w", err)
	}
	return nil
}
