// Пакет model — доменные модели WsImagenes.
// DocumentRecord — маппинг documentos JOIN archivos_fisicos.
package model

import "time"

// DocumentRecord — один извлекаемый документ.
// Содержит ссылку на файл (BlobPath), но не сами байты.
type DocumentRecord struct {
	// ID — id_documento. Для синтезированного документа — 0.
	ID int64
	// SearchKey — llave_busqueda, к которой привязан документ
	SearchKey string
	// DocTypeID — tipo_doc_id
	DocTypeID int
	// Description — описание документа
	Description string
	// Sequence — порядковый номер в результате (1-based), задаётся агрегатором
	Sequence int
	// Extension — расширение файла как в хранилище (без нормализации)
	Extension string
	// CreatedAt — время создания файла
	CreatedAt time.Time
	// BlobPath — относительный путь файла в blobstore
	BlobPath string
	// FileName — имя файла
	FileName string
	// Size — размер файла в байтах (0, если неизвестен)
	Size int64
}

// Document — запись документа вместе с прочитанным содержимым.
type Document struct {
	DocumentRecord
	// Content — байты файла
	Content []byte
}

// ResultSet — упорядоченный набор документов одного запроса.
// Принадлежит вызывающему, между запросами не разделяется.
type ResultSet []Document

// FirstID возвращает ID первого документа или nil для пустого набора.
func (rs ResultSet) FirstID() *int64 {
	if len(rs) == 0 {
		return nil
	}
	id := rs[0].ID
	return &id
}
