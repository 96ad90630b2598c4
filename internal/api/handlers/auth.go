// auth.go — POST /api/v1/login (ObtenLogin) и POST /api/v1/logout.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/wsimagenes/internal/api/errors"
	"github.com/bigkaa/goartstore/wsimagenes/internal/api/legacy"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

type loginRequest struct {
	UserID    string `json:"user_id"`
	Password  string `json:"password"`
	ProjectID int    `json:"project_id"`
	IP        string `json:"ip"`
	Origin    string `json:"origin"`
}

// Login — выдача билета по логину и паролю.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	res, err := h.auth.Login(r.Context(), service.LoginRequest{
		UserID:    req.UserID,
		Password:  req.Password,
		ProjectID: req.ProjectID,
		IP:        req.IP,
		Origin:    req.Origin,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusOK, legacy.LoginResponse{Respuesta: legacy.InvalidCredentials()})
			return
		}
		h.logger.Error("Ошибка входа",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusOK, legacy.LoginResponse{Respuesta: legacy.SystemError()})
		return
	}

	writeJSON(w, http.StatusOK, legacy.LoginResponse{
		Result:    legacy.NewIDTicket(res, h.legacyOpts),
		Respuesta: legacy.AuthOK(),
	})
}

// Logout — деактивация билета. Ответ всегда успешный.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req ticketBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	h.auth.Logout(r.Context(), req.TicketID, clientIP(r))
	writeJSON(w, http.StatusOK, legacy.LogoutResponse{Respuesta: legacy.AuthOK()})
}
