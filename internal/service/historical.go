package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
)

// HistoricalProvider — документы из таблицы documentos.
type HistoricalProvider struct {
	docs       repository.DocumentRepository
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewHistoricalProvider создаёт исторический источник.
func NewHistoricalProvider(docs repository.DocumentRepository, aggregator *Aggregator, logger *slog.Logger) *HistoricalProvider {
	return &HistoricalProvider{
		docs:       docs,
		aggregator: aggregator,
		logger:     logger.With(slog.String("component", "historical")),
	}
}

// Find ищет документы по ключу как есть. docType <= 0 — без фильтра типа.
func (p *HistoricalProvider) Find(ctx context.Context, rawKey string, docType int) (model.ResultSet, error) {
	var (
		records []model.DocumentRecord
		err     error
	)
	if docType <= 0 {
		records, err = p.docs.FindByKey(ctx, rawKey)
	} else {
		records, err = p.docs.FindByKeyAndType(ctx, rawKey, docType)
	}
	if err != nil {
		return nil, fmt.Errorf("исторический поиск: %w", err)
	}

	p.logger.Debug("Исторический поиск выполнен",
		slog.String("key", rawKey),
		slog.Int("doc_type", docType),
		slog.Int("records", len(records)),
	)
	return p.aggregator.Aggregate(records), nil
}
