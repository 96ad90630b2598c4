// online.go — синтезированный источник для периодов не раньше отсечки.
//
// Отдаёт один документ: сконфигурированный PDF под именем
// EdoCta_<год><месяц>_<счёт>.pdf.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bigkaa/goartstore/wsimagenes/internal/blobstore"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

const (
	// SynthesizedDocTypeID — tipo_doc_id синтезированного документа.
	SynthesizedDocTypeID = 1
	// SynthesizedExtension — расширение синтезированного документа.
	SynthesizedExtension = "pdf"
)

// OnlineProvider — синтезированный источник.
type OnlineProvider struct {
	pdfName         string
	aggregator      *Aggregator
	fallbackEnabled bool
	logger          *slog.Logger

	now func() time.Time
}

// NewOnlineProvider создаёт источник поверх файла pdfPath.
// Пустой pdfPath допустим: источник всегда будет недоступен.
func NewOnlineProvider(pdfPath string, fallbackEnabled bool, logger *slog.Logger) (*OnlineProvider, error) {
	p := &OnlineProvider{
		fallbackEnabled: fallbackEnabled,
		logger:          logger.With(slog.String("component", "online")),
		now:             time.Now,
	}
	if pdfPath == "" {
		return p, nil
	}

	store, err := blobstore.New(filepath.Dir(pdfPath))
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации синтезированного источника: %w", err)
	}
	p.pdfName = filepath.Base(pdfPath)
	p.aggregator = NewAggregator(store, logger)
	return p, nil
}

// SynthesizedFileName — имя файла синтезированного документа.
func SynthesizedFileName(year, month int, account string) string {
	return fmt.Sprintf("EdoCta_%d%02d_%s.pdf", year, month, account)
}

// FindSynthesized возвращает один документ для ключа.
// При сбое: флаг fallback включён — (nil, nil), выключен — ошибка.
func (p *OnlineProvider) FindSynthesized(ctx context.Context, rawKey string, year, month int, account string) (model.ResultSet, error) {
	result, err := p.find(ctx, rawKey, year, month, account)
	if err == nil {
		return result, nil
	}

	if p.fallbackEnabled {
		p.logger.Warn("Синтезированный источник недоступен",
			slog.String("key", rawKey),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	return nil, fmt.Errorf("синтезированный источник: %w", err)
}

func (p *OnlineProvider) find(ctx context.Context, rawKey string, year, month int, account string) (model.ResultSet, error) {
	if p.aggregator == nil {
		return nil, errors.New("файл синтезированного документа не настроен")
	}

	rec := model.DocumentRecord{
		ID:          0,
		SearchKey:   rawKey,
		DocTypeID:   SynthesizedDocTypeID,
		Description: "Documento",
		Extension:   SynthesizedExtension,
		CreatedAt:   p.now(),
		BlobPath:    p.pdfName,
		FileName:    SynthesizedFileName(year, month, account),
	}

	result := p.aggregator.Aggregate([]model.DocumentRecord{rec})
	if len(result) == 0 {
		return nil, fmt.Errorf("файл %s не прочитан", p.pdfName)
	}
	result[0].Size = int64(len(result[0].Content))
	return result, nil
}
