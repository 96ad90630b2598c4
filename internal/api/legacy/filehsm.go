package legacy

import (
	"strings"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// DigitizedAtLayout — формат FechaDigitalizacion.
const DigitizedAtLayout = "2006-01-02 15:04:05"

const defaultDescription = "Documento"

// FileHSM — документ в ответе (clsFileHSM).
// ArrayFile сериализуется encoding/json в стандартный base64.
type FileHSM struct {
	DocID               int64  `json:"DocID"`
	DocPID              int64  `json:"DocPID"`
	TipoDocID           int    `json:"TipoDocID"`
	TipoDocIDGrupo      int64  `json:"TipoDocIdGrupo"`
	Descripcion         string `json:"Descripcion"`
	Consecutivo         int    `json:"Consecutivo"`
	Separador           bool   `json:"Separador"`
	Ext                 string `json:"Ext"`
	FechaDigitalizacion string `json:"FechaDigitalizacion"`
	ArrayFile           []byte `json:"ArrayFile"`
	CreatedBy           int64  `json:"CreatedBy"`
}

// NewFileHSM преобразует документ в clsFileHSM.
func NewFileHSM(doc model.Document) FileHSM {
	desc := doc.Description
	if desc == "" {
		desc = defaultDescription
	}

	var digitized string
	if !doc.CreatedAt.IsZero() {
		digitized = doc.CreatedAt.Format(DigitizedAtLayout)
	}

	content := doc.Content
	if content == nil {
		content = []byte{}
	}

	return FileHSM{
		DocID:               doc.ID,
		TipoDocID:           doc.DocTypeID,
		Descripcion:         desc,
		Consecutivo:         doc.Sequence,
		Ext:                 NormalizeExt(doc.Extension),
		FechaDigitalizacion: digitized,
		ArrayFile:           content,
	}
}

// NewFileHSMList преобразует набор документов с сохранением порядка.
func NewFileHSMList(docs model.ResultSet) []FileHSM {
	out := make([]FileHSM, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewFileHSM(d))
	}
	return out
}

// NormalizeExt — расширение в верхнем регистре с ведущей точкой.
// "pdf" → ".PDF", ".tif" → ".TIF", "" → "".
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToUpper(ext)
}
