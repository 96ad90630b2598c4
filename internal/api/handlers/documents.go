// documents.go — GET /api/v1/documents/{doc_id} (ContestaFileHSM).
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/goartstore/wsimagenes/internal/api/errors"
	"github.com/bigkaa/goartstore/wsimagenes/internal/api/legacy"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

// GetDocument — документ с содержимым по id_documento.
// Билет передаётся в заголовках X-Ticket-ID и X-Ticket-Expires-At.
func (h *APIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	var docID int64
	err := runtime.BindStyledParameterWithOptions("simple", "doc_id", chi.URLParam(r, "doc_id"), &docID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		apierrors.ValidationError(w, "Некорректный параметр doc_id: "+err.Error())
		return
	}

	ticket, err := ticketFromHeaders(r)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный заголовок "+HeaderTicketExpiresAt)
		return
	}

	doc, err := h.documents.Fetch(r.Context(), ticket, docID, clientIP(r))
	if err != nil {
		writeJSON(w, http.StatusOK, legacy.FileResponse{Respuesta: documentFailure(err)})
		return
	}

	fh := legacy.NewFileHSM(*doc)
	writeJSON(w, http.StatusOK, legacy.FileResponse{
		Result:    &fh,
		Respuesta: legacy.ExpedientOK(),
	})
}

// ticketFromHeaders собирает билет из заголовков. Без X-Ticket-ID — nil.
func ticketFromHeaders(r *http.Request) (*model.Ticket, error) {
	token := strings.TrimSpace(r.Header.Get(HeaderTicketID))
	if token == "" {
		return nil, nil
	}
	t := &model.Ticket{Token: token}
	if raw := r.Header.Get(HeaderTicketExpiresAt); raw != "" {
		exp, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		t.ExpiresAt = exp
	}
	return t, nil
}

// documentFailure переводит ошибку выдачи в rRespuesta.
func documentFailure(err error) legacy.Respuesta {
	var missing *service.BlobMissingError
	switch {
	case errors.Is(err, service.ErrTicketInvalid):
		return legacy.TicketInvalid(legacy.OperationFileHSM)
	case errors.Is(err, service.ErrNotFound):
		return legacy.NoResults()
	case errors.As(err, &missing):
		return legacy.FileNotFound(missing.Path)
	default:
		return legacy.FileError()
	}
}
