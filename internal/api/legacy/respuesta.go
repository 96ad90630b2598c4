// Пакет legacy — ответы в формате, который ожидают клиенты WsImagenes.
//
// Бизнес-исходы (включая ошибки) отдаются с HTTP 200 и кодом в rRespuesta.
// Тексты и коды совпадают с эталонными ответами QA.
package legacy

import "fmt"

const (
	// CategoryInfo — категория информационных ответов.
	CategoryInfo = "4000"
	// CategoryInfoDescription — описание категории информационных ответов.
	CategoryInfoDescription = "Información"
)

// Коды RespuestaID.
const (
	CodeOK                 = "0"
	CodeInvalidCredentials = "2002"
	CodeTicketExpired      = "2052"
	CodeTicketInvalid      = "2053"
	CodeBadRequest         = "400"
	CodeFileNotFound       = "404"
	CodeSystemError        = "500"
	CodeExpedientError     = "7001"
	CodeFileError          = "7002"
)

// Операции, используемые как DescripcionCategoria ошибок.
const (
	OperationExpedient = "ContestaExpedientexLlave"
	OperationFileHSM   = "ContestaFileHSM"
)

// Тексты ответов.
const (
	textExpedientOK     = "Expediente Obtenido correctamente"
	textNoResults       = "SIN_RESULTADOS"
	textBadCredentials  = "Usuario o contraseña incorrecta"
	textTicketExpired   = "El ticket suministrado ha expirado. Por favor, reintente el login"
	textTicketInvalid   = "El ticket suministrado no es válido o está corrupto"
	textEmptyKey        = "La llave no contiene valor"
	textInvalidKey      = "La llave suministrada no es válida"
	textInternalError   = "Error interno del sistema"
	expedientNotFoundFm = "Ocurrio un error en el proceso de ConstestaExp. Proyecto:%d, ExpID:%d, Llave:1[Llave=[%s]]. " +
		"Detalles: --> No se encontró el expediente\nNo cuenta con permisos a nivel Jerarquia de Grupos"
)

// Respuesta — блок rRespuesta.
type Respuesta struct {
	RespuestaID          string `json:"RespuestaID"`
	Categoria            string `json:"Categoria"`
	DescripcionCategoria string `json:"DescripcionCategoria"`
	DescripcionRespuesta string `json:"DescripcionRespuesta"`
	RespuestaToString    string `json:"RespuestaToString"`
}

// OK — признак успешного ответа (код 0).
func (r Respuesta) OK() bool {
	return r.RespuestaID == CodeOK
}

// info — информационный ответ категории 4000.
func info(code, description string) Respuesta {
	return Respuesta{
		RespuestaID:          code,
		Categoria:            CategoryInfo,
		DescripcionCategoria: CategoryInfoDescription,
		DescripcionRespuesta: description,
		RespuestaToString:    "[" + CategoryInfoDescription + "]: (" + code + "). ",
	}
}

// failure — ответ об ошибке: категория совпадает с кодом.
func failure(code, category, detail string) Respuesta {
	toString := detail
	if toString == "" {
		toString = category
	}
	return Respuesta{
		RespuestaID:          code,
		Categoria:            code,
		DescripcionCategoria: category,
		DescripcionRespuesta: detail,
		RespuestaToString:    toString,
	}
}

// login — ответы ObtenLogin: описание и RespuestaToString включают код.
func login(code, text string) Respuesta {
	desc := "(" + code + "). " + text
	return Respuesta{
		RespuestaID:          code,
		Categoria:            CategoryInfo,
		DescripcionCategoria: CategoryInfoDescription,
		DescripcionRespuesta: desc,
		RespuestaToString:    "[" + CategoryInfoDescription + "]: " + desc,
	}
}

// AuthOK — успешный вход.
func AuthOK() Respuesta {
	return login(CodeOK, "")
}

// InvalidCredentials — код 2002.
func InvalidCredentials() Respuesta {
	return login(CodeInvalidCredentials, textBadCredentials)
}

// ExpedientOK — документы получены.
func ExpedientOK() Respuesta {
	return info(CodeOK, textExpedientOK)
}

// NoResults — документ по id не найден (код 0).
func NoResults() Respuesta {
	return info(CodeOK, textNoResults)
}

// TicketExpired — билет истёк (2052) внутри ошибки операции 7001.
func TicketExpired(operation string) Respuesta {
	return ticketFailure(operation, CodeTicketExpired, textTicketExpired)
}

// TicketInvalid — билет недействителен (2053) внутри ошибки операции 7001.
func TicketInvalid(operation string) Respuesta {
	return ticketFailure(operation, CodeTicketInvalid, textTicketInvalid)
}

func ticketFailure(operation, code, text string) Respuesta {
	desc := "[" + CategoryInfoDescription + "]: (" + code + "). " + text
	return Respuesta{
		RespuestaID:          CodeExpedientError,
		Categoria:            CodeExpedientError,
		DescripcionCategoria: operation,
		DescripcionRespuesta: desc,
		RespuestaToString:    "System.Exception: " + desc,
	}
}

// ExpedientNotFound — пустой результат поиска (7001, длинный текст).
func ExpedientNotFound(projectID, expedientID int, key string) Respuesta {
	return failure(CodeExpedientError, OperationExpedient,
		fmt.Sprintf(expedientNotFoundFm, projectID, expedientID, key))
}

// InvalidKey — ключ не разбирается (7001).
func InvalidKey() Respuesta {
	return failure(CodeExpedientError, OperationExpedient, textInvalidKey)
}

// ExpedientError — внутренняя ошибка поиска (7001).
// Подробности остаются в журнале доступа, клиент получает общий текст.
func ExpedientError() Respuesta {
	return failure(CodeExpedientError, OperationExpedient, textInternalError)
}

// FileError — внутренняя ошибка выдачи документа (7002).
func FileError() Respuesta {
	return failure(CodeFileError, OperationFileHSM, textInternalError)
}

// FileNotFound — файл документа отсутствует (404), описание — путь.
func FileNotFound(path string) Respuesta {
	return failure(CodeFileNotFound, "ARCHIVO_NO_ENCONTRADO", path)
}

// EmptyKey — ключ не передан (400).
func EmptyKey() Respuesta {
	return failure(CodeBadRequest, "LLAVE_VACIA", textEmptyKey)
}

// SystemError — непредвиденная ошибка (500).
func SystemError() Respuesta {
	return failure(CodeSystemError, "ERROR", textInternalError)
}
