package model

import "time"

// Ticket — сессионный билет, выданный после аутентификации.
type Ticket struct {
	// Token — непрозрачный токен в стандартном base64
	Token string
	// OwnerID — id_usuario владельца
	OwnerID int64
	// Username — имя пользователя владельца
	Username string
	// IssuedAt — время выдачи
	IssuedAt time.Time
	// ExpiresAt — время истечения (IssuedAt + TTL)
	ExpiresAt time.Time
	// OriginAddress — IP-адрес клиента
	OriginAddress string
	// Active — признак активности
	Active bool
}

// TicketState — результат классификации билета.
type TicketState int

const (
	// TicketInvalid — билет отсутствует, неизвестен, подделан или хранилище недоступно.
	TicketInvalid TicketState = iota
	// TicketValid — билет активен и не истёк.
	TicketValid
	// TicketExpired — билет не подтверждён хранилищем и сам сообщает о прошедшем сроке.
	TicketExpired
)

// String возвращает имя состояния для логов и метрик.
func (s TicketState) String() string {
	switch s {
	case TicketValid:
		return "valid"
	case TicketExpired:
		return "expired"
	default:
		return "invalid"
	}
}
