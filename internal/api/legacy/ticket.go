package legacy

import (
	"time"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

// Значения профиля по умолчанию, если у пользователя они не заданы.
const (
	defaultAdminGroupID   = 3
	defaultClientID       = 1
	defaultProfileID      = 9
	defaultIdentityNumber = 10
)

// IDTicket — билет в ответе ObtenLogin.
// IP, NombreCompleto и NombreUsuario выводятся только при включённых флагах config.Legacy.
type IDTicket struct {
	TicketID              string    `json:"TicketID"`
	UsrID                 string    `json:"UsrID"`
	IP                    string    `json:"IP,omitempty"`
	ProyectoID            int       `json:"ProyectoID"`
	VersionAplicacionID   int       `json:"VersionAplicacionID"`
	FechaHoraInicio       time.Time `json:"FechaHoraInicio"`
	FechaHoraUltimoAcceso time.Time `json:"FechaHoraUltimoAcceso"`
	FechaCreacion         time.Time `json:"FechaCreacion"`
	FechaExpiracion       time.Time `json:"FechaExpiracion"`
	TiempoVida            int       `json:"TiempoVida"`
	TiempoRestante        int       `json:"TiempoRestante"`
	NombreCompleto        string    `json:"NombreCompleto,omitempty"`
	NombreUsuario         string    `json:"NombreUsuario,omitempty"`
	GrupoAdminID          int       `json:"GrupoAdminID"`
	ClienteID             int       `json:"ClienteID"`
	PerfilUsuarioID       int       `json:"PerfilUsuarioID"`
	TiempoVidaPwd         int       `json:"TiempoVidaPwd"`
	TiempoActualizoPwd    int       `json:"TiempoActualizoPwd"`
	NoIdentidad           int       `json:"NoIdentidad"`
	DuracionDias          int       `json:"DuracionDias"`
	AvisoCaducidadPwdDias int       `json:"AvisoCaducidadPwdDias"`
	Expirado              bool      `json:"Expirado"`
	Activo                bool      `json:"Activo"`
}

// NewIDTicket собирает IDTicket из результата входа.
func NewIDTicket(res *service.LoginResult, opts config.Legacy) *IDTicket {
	t := res.Ticket
	u := res.User
	username := u.Username

	out := &IDTicket{
		TicketID:              t.Token,
		UsrID:                 username,
		ProyectoID:            res.ProjectID,
		VersionAplicacionID:   res.AppVersionID,
		FechaHoraInicio:       t.IssuedAt,
		FechaHoraUltimoAcceso: t.IssuedAt,
		FechaCreacion:         t.IssuedAt,
		FechaExpiracion:       t.ExpiresAt,
		TiempoVida:            res.Lifetime,
		TiempoRestante:        res.Remaining,
		GrupoAdminID:          orDefault(u.AdminGroupID, defaultAdminGroupID),
		ClienteID:             orDefault(u.ClientID, defaultClientID),
		PerfilUsuarioID:       orDefault(u.ProfileID, defaultProfileID),
		TiempoVidaPwd:         res.PasswordLifetime,
		TiempoActualizoPwd:    res.PasswordUpdated,
		NoIdentidad:           orDefault(u.IdentityNumber, defaultIdentityNumber),
		Activo:                t.Active,
	}

	if opts.IncludeIP {
		out.IP = res.IP
	}
	if opts.IncludeFullName {
		out.NombreCompleto = u.FullName
		if out.NombreCompleto == "" {
			out.NombreCompleto = username + " " + username + ", " + username
		}
	}
	if opts.IncludeUsername {
		out.NombreUsuario = username
	}
	return out
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// --- Тела ответов операций ---

// LoginResponse — ответ ObtenLogin.
type LoginResponse struct {
	Result    *IDTicket `json:"ObtenLoginResult,omitempty"`
	Respuesta Respuesta `json:"rRespuesta"`
}

// ExpedientResponse — ответ ContestaExpedientexLlave.
type ExpedientResponse struct {
	Result    []FileHSM `json:"ContestaExpedientexLlaveResult,omitempty"`
	Respuesta Respuesta `json:"rRespuesta"`
}

// FileResponse — ответ ContestaFileHSM.
type FileResponse struct {
	Result    *FileHSM  `json:"ContestaFileHSMResult,omitempty"`
	Respuesta Respuesta `json:"rRespuesta"`
}

// LogoutResponse — ответ выхода.
type LogoutResponse struct {
	Respuesta Respuesta `json:"rRespuesta"`
}
