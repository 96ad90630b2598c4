// documents.go — получение одного документа по id (ContestaFileHSM).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
)

// DocumentService — выдача документа по id_documento.
// Метаданные читаются через LRU-кэш.
type DocumentService struct {
	tickets TicketClassifier
	docs    repository.DocumentRepository
	cache   *CacheService
	blobs   BlobReader
	audit   *AuditService
	logger  *slog.Logger
}

// NewDocumentService создаёт DocumentService.
func NewDocumentService(
	tickets TicketClassifier,
	docs repository.DocumentRepository,
	cache *CacheService,
	blobs BlobReader,
	audit *AuditService,
	logger *slog.Logger,
) *DocumentService {
	return &DocumentService{
		tickets: tickets,
		docs:    docs,
		cache:   cache,
		blobs:   blobs,
		audit:   audit,
		logger:  logger.With(slog.String("component", "documents")),
	}
}

// Fetch возвращает документ с содержимым и Sequence = 1.
//
// Любой билет, кроме действительного, даёт ErrTicketInvalid.
// Неизвестный id — ErrNotFound, отсутствующий или пустой файл — *BlobMissingError.
func (s *DocumentService) Fetch(ctx context.Context, ticket *model.Ticket, docID int64, origin string) (*model.Document, error) {
	rec := AuditRecord{
		Operation:     model.OperationFileHSM,
		TicketToken:   ticketToken(ticket),
		OriginAddress: origin,
	}

	if s.tickets.Classify(ctx, ticket) != model.TicketValid {
		rec.ErrorDetail = "Ticket inválido (2053)"
		s.audit.Record(ctx, rec)
		return nil, ErrTicketInvalid
	}

	record, err := s.getRecord(ctx, docID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			rec.ErrorDetail = "DocID no encontrado"
		} else {
			rec.ErrorDetail = err.Error()
		}
		s.audit.Record(ctx, rec)
		return nil, err
	}
	rec.DocumentID = &record.ID

	content, err := s.blobs.Read(record.BlobPath)
	if err != nil || len(content) == 0 {
		attrs := []any{slog.Int64("doc_id", record.ID), slog.String("path", record.BlobPath)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.logger.Warn("Файл документа не найден", attrs...)
		// Путь мог измениться в БД, следующий запрос перечитает метаданные.
		s.cache.Delete(record.ID)

		rec.ErrorDetail = "Archivo no encontrado en disco"
		s.audit.Record(ctx, rec)
		return nil, &BlobMissingError{Path: record.BlobPath}
	}

	doc := &model.Document{DocumentRecord: *record, Content: content}
	doc.Sequence = 1

	rec.Succeeded = true
	s.audit.Record(ctx, rec)
	return doc, nil
}

// getRecord читает метаданные из кэша, при промахе — из БД.
func (s *DocumentService) getRecord(ctx context.Context, docID int64) (*model.DocumentRecord, error) {
	if cached, ok := s.cache.Get(docID); ok {
		return cached, nil
	}

	record, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения документа: %w", err)
	}

	s.cache.Set(docID, record)
	return record, nil
}
