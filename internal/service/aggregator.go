// aggregator.go — сборка ResultSet из записей документов.
package service

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
)

var blobReadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wi_blob_read_failures_total",
	Help: "Количество записей, отброшенных из-за ошибки чтения файла.",
})

// BlobReader — чтение содержимого файла по относительному пути.
// Реализуется blobstore.Store.
type BlobReader interface {
	Read(relativePath string) ([]byte, error)
}

// Aggregator читает содержимое файлов и нумерует документы.
type Aggregator struct {
	blobs  BlobReader
	logger *slog.Logger
}

// NewAggregator создаёт Aggregator над хранилищем файлов.
func NewAggregator(blobs BlobReader, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "aggregator")),
	}
}

// Aggregate возвращает документы в порядке records.
// Записи с нечитаемым файлом пропускаются, Sequence остаётся
// непрерывным (1, 2, ...) по выжившим записям.
// Чтение файлов не прерывается: ResultSet всегда полный по records.
func (a *Aggregator) Aggregate(records []model.DocumentRecord) model.ResultSet {
	result := make(model.ResultSet, 0, len(records))
	for _, rec := range records {
		content, err := a.blobs.Read(rec.BlobPath)
		if err != nil {
			blobReadFailuresTotal.Inc()
			a.logger.Warn("Файл документа не прочитан, запись пропущена",
				slog.Int64("doc_id", rec.ID),
				slog.String("path", rec.BlobPath),
				slog.String("error", err.Error()),
			)
			continue
		}

		doc := model.Document{DocumentRecord: rec, Content: content}
		doc.Sequence = len(result) + 1
		result = append(result, doc)
	}
	return result
}
