// router.go — выбор источника документов по периоду ключа.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/model"
	"github.com/bigkaa/goartstore/wsimagenes/internal/domain/searchkey"
)

var (
	routingDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wi_routing_decisions_total",
		Help: "Решения маршрутизации по источнику.",
	}, []string{"source"})
	routingFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wi_routing_fallbacks_total",
		Help: "Переходы с синтезированного источника на исторический.",
	})
)

// OnlineSource — синтезированный источник.
type OnlineSource interface {
	FindSynthesized(ctx context.Context, rawKey string, year, month int, account string) (model.ResultSet, error)
}

// HistoricalSource — исторический источник.
type HistoricalSource interface {
	Find(ctx context.Context, rawKey string, docType int) (model.ResultSet, error)
}

// RoutingDecision — какой источник выбран и был ли переход на исторический.
type RoutingDecision struct {
	Source   searchkey.Source
	FellBack bool
}

// Router — DocumentSourceRouter.
type Router struct {
	online     OnlineSource
	historical HistoricalSource
	cutoff     searchkey.Period
	buWidth    int
	logger     *slog.Logger
}

// NewRouter создаёт маршрутизатор. Отсечка нормализуется один раз.
func NewRouter(online OnlineSource, historical HistoricalSource, routing config.Routing, logger *slog.Logger) *Router {
	buWidth := routing.BusinessUnitWidth
	if buWidth <= 0 {
		buWidth = searchkey.DefaultBusinessUnitWidth
	}
	r := &Router{
		online:     online,
		historical: historical,
		cutoff:     searchkey.NormalizeCutoff(routing.Cutoff),
		buWidth:    buWidth,
		logger:     logger.With(slog.String("component", "router")),
	}
	r.logger.Info("Маршрутизатор источников настроен",
		slog.String("cutoff_raw", routing.Cutoff),
		slog.Int("cutoff", int(r.cutoff)),
		slog.Int("business_unit_width", buWidth),
	)
	return r
}

// Resolve возвращает документы для ключа.
func (r *Router) Resolve(ctx context.Context, rawKey string, docType int) (model.ResultSet, error) {
	result, _, err := r.Route(ctx, rawKey, docType)
	return result, err
}

// Route — Resolve вместе с принятым решением.
//
// Пустой ключ сразу уходит в исторический источник без разбора.
// Пустой ответ или ошибка синтезированного источника дают один
// переход на исторический.
func (r *Router) Route(ctx context.Context, rawKey string, docType int) (model.ResultSet, RoutingDecision, error) {
	if strings.TrimSpace(rawKey) == "" {
		routingDecisionsTotal.WithLabelValues(searchkey.SourceHistorical.String()).Inc()
		decision := RoutingDecision{Source: searchkey.SourceHistorical}
		result, err := r.findHistorical(ctx, rawKey, docType)
		return result, decision, err
	}

	key, err := searchkey.ParseWidth(rawKey, r.buWidth)
	if err != nil {
		return nil, RoutingDecision{}, fmt.Errorf("ключ %q: %w", rawKey, ErrInvalidKey)
	}

	source := searchkey.DecidePeriod(key, r.cutoff)
	routingDecisionsTotal.WithLabelValues(source.String()).Inc()
	r.logger.Info("Выбран источник документов",
		slog.String("key", rawKey),
		slog.Int("month", key.Month),
		slog.Int("year", key.Year),
		slog.Int("period", int(key.Period())),
		slog.Int("cutoff", int(r.cutoff)),
		slog.String("source", source.String()),
	)

	decision := RoutingDecision{Source: source}
	if source == searchkey.SourceOnline {
		result, err := r.online.FindSynthesized(ctx, rawKey, key.Year, key.Month, key.Account)
		if err == nil && len(result) > 0 {
			return result, decision, nil
		}

		attrs := []any{slog.String("key", rawKey)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		r.logger.Warn("Синтезированный источник не дал результата, переход на исторический", attrs...)
		routingFallbacksTotal.Inc()
		decision.FellBack = true
	}

	result, err := r.findHistorical(ctx, rawKey, docType)
	return result, decision, err
}

func (r *Router) findHistorical(ctx context.Context, rawKey string, docType int) (model.ResultSet, error) {
	result, err := r.historical.Find(ctx, rawKey, docType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return result, nil
}
