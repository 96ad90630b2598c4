// expedientes.go — POST /api/v1/expedientes/search (ContestaExpedientexLlave).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/wsimagenes/internal/api/errors"
	"github.com/bigkaa/goartstore/wsimagenes/internal/api/legacy"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

type expedientRequest struct {
	Ticket      *ticketBody `json:"ticket"`
	Key         string      `json:"llave"`
	ProjectID   int         `json:"proyecto_id"`
	ExpedientID int         `json:"expediente_id"`
	DocTypeID   int         `json:"tipo_doc_id"`
}

// SearchExpedient — документы экспедиента по ключу.
// Выбранный источник возвращается в заголовке X-Document-Source.
func (h *APIHandler) SearchExpedient(w http.ResponseWriter, r *http.Request) {
	var req expedientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	res, err := h.expedients.Lookup(r.Context(), service.LookupRequest{
		Ticket:        req.Ticket.toModel(),
		SearchKey:     req.Key,
		ProjectID:     req.ProjectID,
		ExpedientID:   req.ExpedientID,
		DocTypeID:     req.DocTypeID,
		OriginAddress: clientIP(r),
	})
	if err != nil {
		writeJSON(w, http.StatusOK, legacy.ExpedientResponse{Respuesta: expedientFailure(err, req)})
		return
	}

	w.Header().Set(HeaderDocumentSource, res.Decision.Source.String())
	writeJSON(w, http.StatusOK, legacy.ExpedientResponse{
		Result:    legacy.NewFileHSMList(res.Documents),
		Respuesta: legacy.ExpedientOK(),
	})
}

// expedientFailure переводит ошибку поиска в rRespuesta.
// Текст внутренних ошибок клиенту не передаётся, он есть в журнале доступа.
func expedientFailure(err error, req expedientRequest) legacy.Respuesta {
	switch {
	case errors.Is(err, service.ErrTicketExpired):
		return legacy.TicketExpired(legacy.OperationExpedient)
	case errors.Is(err, service.ErrTicketInvalid):
		return legacy.TicketInvalid(legacy.OperationExpedient)
	case errors.Is(err, service.ErrEmptyKey):
		return legacy.EmptyKey()
	case errors.Is(err, service.ErrNotFound):
		return legacy.ExpedientNotFound(req.ProjectID, req.ExpedientID, req.Key)
	case errors.Is(err, service.ErrInvalidKey):
		return legacy.InvalidKey()
	default:
		return legacy.ExpedientError()
	}
}
