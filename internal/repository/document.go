package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

// documentSelect — общий SELECT документа с его физическим файлом.
const documentSelect = `SELECT d.id_documento, d.llave_busqueda, d.tipo_doc_id,
	COALESCE(d.descripcion, ''), a.ruta_relativa, a.nombre_archivo,
	COALESCE(a.extension, ''), a.tamano_bytes, a.fecha_creacion
	FROM documentos d
	JOIN archivos_fisicos a ON a.id_archivo = d.id_archivo`

// DocumentRepository — исторический источник записей документов.
type DocumentRepository interface {
	// FindByKey возвращает документы ключа в порядке (tipo_doc_id, id_documento).
	FindByKey(ctx context.Context, key string) ([]model.DocumentRecord, error)
	// FindByKeyAndType возвращает документы ключа и типа в порядке id_documento.
	FindByKeyAndType(ctx context.Context, key string, docType int) ([]model.DocumentRecord, error)
	// FindByID возвращает документ по id_documento или ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.DocumentRecord, error)
}

// documentRepo — реализация DocumentRepository через pgx.
type documentRepo struct {
	db DBTX
}

// NewDocumentRepository создаёт репозиторий документов.
func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

// FindByKey — поиск по llave_busqueda без фильтра типа.
func (r *documentRepo) FindByKey(ctx context.Context, key string) ([]model.DocumentRecord, error) {
	query := documentSelect + ` WHERE d.llave_busqueda = $1 ORDER BY d.tipo_doc_id, d.id_documento`
	return r.list(ctx, query, key)
}

// FindByKeyAndType — поиск по llave_busqueda и tipo_doc_id.
func (r *documentRepo) FindByKeyAndType(ctx context.Context, key string, docType int) ([]model.DocumentRecord, error) {
	query := documentSelect + ` WHERE d.llave_busqueda = $1 AND d.tipo_doc_id = $2 ORDER BY d.id_documento`
	return r.list(ctx, query, key, docType)
}

// FindByID — поиск по id_documento.
func (r *documentRepo) FindByID(ctx context.Context, id int64) (*model.DocumentRecord, error) {
	query := documentSelect + ` WHERE d.id_documento = $1`

	var d model.DocumentRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.SearchKey, &d.DocTypeID, &d.Description, &d.BlobPath,
		&d.FileName, &d.Extension, &d.Size, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения документа: %w", err)
	}
	return &d, nil
}

func (r *documentRepo) list(ctx context.Context, query string, args ...any) ([]model.DocumentRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска документов: %w", err)
	}
	defer rows.Close()

	var result []model.DocumentRecord
	for rows.Next() {
		var d model.DocumentRecord
		if err := rows.Scan(
			&d.ID, &d.SearchKey, &d.DocTypeID, &d.Description, &d.BlobPath,
			&d.FileName, &d.Extension, &d.Size, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования документа: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}

	return result, nil
}
