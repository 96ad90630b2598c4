// auth.go — вход и выход (ObtenLogin / Logout).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
)

// DefaultOriginAddress подставляется, если клиент не передал IP.
const DefaultOriginAddress = "127.0.0.1"

// LoginRequest — параметры входа.
type LoginRequest struct {
	UserID    string
	Password  string
	ProjectID int
	IP        string

	// Origin — имя вызывающей системы, только для логов
	Origin string
}

// LoginResult — выданный билет и профиль пользователя.
type LoginResult struct {
	Ticket    *model.Ticket
	User      *model.User
	ProjectID int
	IP        string

	AppVersionID     int
	Lifetime         int
	Remaining        int
	PasswordLifetime int
	PasswordUpdated  int
}

// AuthService — аутентификация и управление сессией.
type AuthService struct {
	users   repository.UserRepository
	tickets *TicketAuthority
	audit   *AuditService
	cfg     config.Tickets
	logger  *slog.Logger
}

// NewAuthService создаёт AuthService.
func NewAuthService(
	users repository.UserRepository,
	tickets *TicketAuthority,
	audit *AuditService,
	cfg config.Tickets,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tickets: tickets,
		audit:   audit,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Login проверяет учётные данные и выдаёт билет.
// Неизвестный пользователь и неверный пароль дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = DefaultOriginAddress
	}

	user, err := s.users.Validate(ctx, req.UserID, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.audit.Record(ctx, AuditRecord{
				Operation:     model.OperationLogin,
				OriginAddress: ip,
				ErrorDetail:   "Credenciales inválidas",
			})
			s.logger.Info("Неверные учётные данные", slog.String("user_id", req.UserID))
			return nil, ErrInvalidCredentials
		}
		s.audit.Record(ctx, AuditRecord{
			Operation:     model.OperationLogin,
			OriginAddress: ip,
			ErrorDetail:   err.Error(),
		})
		return nil, fmt.Errorf("ошибка проверки учётных данных: %w", err)
	}

	ticket, err := s.tickets.Issue(ctx, user, ip, s.cfg.TTL())
	if err != nil {
		s.audit.Record(ctx, AuditRecord{
			Operation:     model.OperationLogin,
			OriginAddress: ip,
			ErrorDetail:   err.Error(),
		})
		return nil, err
	}

	s.audit.Record(ctx, AuditRecord{
		Operation:     model.OperationLogin,
		TicketToken:   ticket.Token,
		OriginAddress: ip,
		Succeeded:     true,
	})
	s.logger.Info("Билет выдан",
		slog.String("user_id", user.Username),
		slog.String("ip", ip),
		slog.String("origin", req.Origin),
	)

	projectID := req.ProjectID
	if projectID <= 0 {
		projectID = s.cfg.DefaultProjectID
	}

	return &LoginResult{
		Ticket:           ticket,
		User:             user,
		ProjectID:        projectID,
		IP:               ip,
		AppVersionID:     s.cfg.AppVersionID,
		Lifetime:         s.cfg.LifetimeMinutes,
		Remaining:        s.cfg.LifetimeMinutes,
		PasswordLifetime: s.cfg.PasswordLifetime,
		PasswordUpdated:  s.cfg.PasswordUpdated,
	}, nil
}

// Logout деактивирует билет. Всегда успешен.
func (s *AuthService) Logout(ctx context.Context, token, ip string) {
	s.tickets.Invalidate(ctx, token)
	s.audit.Record(ctx, AuditRecord{
		Operation:     model.OperationLogout,
		TicketToken:   token,
		OriginAddress: ip,
		Succeeded:     true,
	})
}
