package model

import "time"

// Имена операций в журнале доступа.
const (
	OperationLogin     = "ObtenLogin"
	OperationLogout    = "Logout"
	OperationExpedient = "ContestaExpedientexLlave"
	OperationFileHSM   = "ContestaFileHSM"
)

// AuditEntry — запись журнала log_accesos.
// Необязательные поля — указатели, nil пишется как NULL.
type AuditEntry struct {
	TicketToken   *string
	DocumentID    *int64
	Operation     string
	SearchKey     *string
	OriginAddress *string
	Succeeded     bool
	ErrorDetail   *string
	RequestID     string
	OccurredAt    time.Time
}
