// ticket.go — TicketAuthority: выдача, классификация и отзыв билетов.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
)

// MinTicketTTL — нижняя граница времени жизни билета.
const MinTicketTTL = 60 * time.Second

// DefaultTicketLengthBytes — длина токена до кодирования в base64.
const DefaultTicketLengthBytes = 20

var (
	ticketsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wi_tickets_issued_total",
		Help: "Общее количество выданных билетов.",
	})
	ticketClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wi_ticket_classifications_total",
		Help: "Результаты классификации предъявленных билетов.",
	}, []string{"state"})
)

// TicketAuthority выдаёт и проверяет сессионные билеты.
// Состояние билетов хранится только в TicketRepository.
type TicketAuthority struct {
	store       repository.TicketRepository
	lengthBytes int
	logger      *slog.Logger

	now    func() time.Time
	random io.Reader
}

// NewTicketAuthority создаёт TicketAuthority.
// lengthBytes <= 0 заменяется на DefaultTicketLengthBytes.
func NewTicketAuthority(store repository.TicketRepository, lengthBytes int, logger *slog.Logger) *TicketAuthority {
	if lengthBytes <= 0 {
		lengthBytes = DefaultTicketLengthBytes
	}
	return &TicketAuthority{
		store:       store,
		lengthBytes: lengthBytes,
		logger:      logger.With(slog.String("component", "ticket_authority")),
		now:         time.Now,
		random:      rand.Reader,
	}
}

// Issue выпускает билет для аутентифицированного пользователя.
// ttl меньше MinTicketTTL поднимается до минимума. Билет возвращается
// только после успешного сохранения.
func (a *TicketAuthority) Issue(ctx context.Context, user *model.User, origin string, ttl time.Duration) (*model.Ticket, error) {
	if ttl < MinTicketTTL {
		ttl = MinTicketTTL
	}

	raw := make([]byte, a.lengthBytes)
	if _, err := io.ReadFull(a.random, raw); err != nil {
		return nil, fmt.Errorf("ошибка генерации токена: %w", err)
	}

	issued := a.now()
	ticket := &model.Ticket{
		Token:         base64.StdEncoding.EncodeToString(raw),
		OwnerID:       user.ID,
		Username:      user.Username,
		IssuedAt:      issued,
		ExpiresAt:     issued.Add(ttl),
		OriginAddress: origin,
		Active:        true,
	}

	if err := a.store.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("ошибка сохранения билета: %w", err)
	}

	ticketsIssuedTotal.Inc()
	a.logger.Info("Билет выдан",
		slog.String("username", user.Username),
		slog.String("origin", origin),
		slog.Time("expires_at", ticket.ExpiresAt),
	)
	return ticket, nil
}

// Classify определяет состояние предъявленного билета.
// Используются только Token и самозаявленный ExpiresAt.
// Ошибка хранилища трактуется как «не подтверждён».
func (a *TicketAuthority) Classify(ctx context.Context, t *model.Ticket) model.TicketState {
	state := a.classify(ctx, t)
	ticketClassificationsTotal.WithLabelValues(state.String()).Inc()
	return state
}

func (a *TicketAuthority) classify(ctx context.Context, t *model.Ticket) model.TicketState {
	if t == nil {
		return model.TicketInvalid
	}

	if t.Token != "" {
		ok, err := a.store.IsActiveAndUnexpired(ctx, t.Token)
		if err != nil {
			a.logger.Warn("Ошибка проверки билета в хранилище",
				slog.String("error", err.Error()),
			)
		} else if ok {
			return model.TicketValid
		}
	}

	if !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(a.now()) {
		return model.TicketExpired
	}
	return model.TicketInvalid
}

// Invalidate деактивирует билет. Ошибки только логируются.
func (a *TicketAuthority) Invalidate(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := a.store.Deactivate(ctx, token); err != nil {
		a.logger.Warn("Ошибка деактивации билета",
			slog.String("error", err.Error()),
		)
		return
	}
	a.logger.Info("Билет деактивирован")
}
