// Пакет server — HTTP-сервер WsImagenes с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bigkaa/goartstore/wsimagenes/internal/api/handlers"
	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
)

// Server — HTTP-сервер WsImagenes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// middlewares — дополнительные middleware (request id, metrics, logging, JWT, валидация),
// добавляются в порядке переданного среза после CORS.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, middlewares ...func(http.Handler) http.Handler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, handler, middlewares...),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер. CORS включается, если заданы CORSAllowedOrigins.
func NewRouter(cfg *config.Config, handler *handlers.APIHandler, middlewares ...func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type",
				handlers.HeaderTicketID, handlers.HeaderTicketExpiresAt, "X-Request-ID"},
			ExposedHeaders: []string{handlers.HeaderDocumentSource, "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	for _, mw := range middlewares {
		router.Use(mw)
	}

	handler.Routes(router)
	return router
}

// JWTAuthWithExclusions оборачивает middleware, пропуская указанные пути.
// Запросы к путям, начинающимся с любого из excludePrefixes, проходят без middleware.
func JWTAuthWithExclusions(mw func(http.Handler) http.Handler, excludePrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Проверяем, начинается ли путь с исключённого префикса
			for _, prefix := range excludePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Применяем middleware
			mw(next).ServeHTTP(w, r)
		})
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
