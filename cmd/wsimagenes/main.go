// Точка входа WsImagenes — шлюз выдачи документов экспедиентов.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL
// (и Redis, если билеты хранятся там), собирает сервисный слой,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/wsimagenes/internal/api/handlers"
	"github.com/bigkaa/goartstore/wsimagenes/internal/api/middleware"
	"github.com/bigkaa/goartstore/wsimagenes/internal/api/openapi"
	"github.com/bigkaa/goartstore/wsimagenes/internal/blobstore"
	"github.com/bigkaa/goartstore/wsimagenes/internal/config"
	"github.com/bigkaa/goartstore/wsimagenes/internal/database"
	"github.com/bigkaa/goartstore/wsimagenes/internal/repository"
	"github.com/bigkaa/goartstore/wsimagenes/internal/server"
	"github.com/bigkaa/goartstore/wsimagenes/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("WsImagenes запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("ticket_store", cfg.Tickets.Store),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Хранилище билетов
	var (
		ticketStore  repository.TicketRepository
		redisChecker handlers.ReadinessChecker
	)
	switch cfg.Tickets.Store {
	case config.TicketStoreRedis:
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
		ticketStore = repository.NewRedisTicketRepository(rdb)
		redisChecker = repository.NewRedisReadinessChecker(rdb)
		logger.Info("Билеты хранятся в Redis", slog.String("addr", cfg.RedisAddr))
	default:
		ticketStore = repository.NewTicketRepository(pool)
	}

	// 6. Хранилище файлов
	blobs, err := blobstore.New(cfg.FilesBasePath)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища файлов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. Repositories
	docRepo := repository.NewDocumentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// 8. Services
	auditSvc := service.NewAuditService(auditRepo, logger)
	tickets := service.NewTicketAuthority(ticketStore, cfg.Tickets.LengthBytes, logger)
	aggregator := service.NewAggregator(blobs, logger)
	historical := service.NewHistoricalProvider(docRepo, aggregator, logger)
	online, err := service.NewOnlineProvider(cfg.SynthesizedPDFPath, cfg.Routing.FallbackEnabled, logger)
	if err != nil {
		logger.Error("Ошибка инициализации онлайн-источника", slog.String("error", err.Error()))
		os.Exit(1)
	}
	router := service.NewRouter(online, historical, cfg.Routing, logger)
	cache := service.NewCacheService(cfg.CacheMaxSize, cfg.CacheTTL)

	authSvc := service.NewAuthService(userRepo, tickets, auditSvc, cfg.Tickets, logger)
	expedientSvc := service.NewExpedientService(tickets, router, auditSvc, logger)
	documentSvc := service.NewDocumentService(tickets, docRepo, cache, blobs, auditSvc, logger)

	// 9. JWT API Gateway (опционально)
	var (
		jwtMiddleware func(http.Handler) http.Handler
		jwksChecker   handlers.ReadinessChecker
	)
	if cfg.JWTJWKSURL != "" {
		jwtAuth, err := middleware.NewJWTAuth(
			cfg.JWTJWKSURL,
			cfg.JWKSCACert,
			cfg.JWTIssuer,
			cfg.JWKSClientTimeout,
			cfg.JWKSRefreshInterval,
			cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
			os.Exit(1)
		}
		jwtMiddleware = server.JWTAuthWithExclusions(jwtAuth.Middleware(), "/health/", "/metrics")

		checker, err := middleware.NewJWKSReadinessChecker(cfg.JWTJWKSURL, cfg.JWKSCACert, cfg.JWKSClientTimeout)
		if err != nil {
			logger.Error("Ошибка создания JWKS readiness checker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		jwksChecker = checker
		logger.Info("JWT middleware инициализирован",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	} else {
		logger.Info("JWT middleware отключён (WI_JWT_JWKS_URL не задан)")
	}

	// 10. Валидация запросов по OpenAPI
	validator, err := openapi.RequestValidator(logger)
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI-контракта", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool), redisChecker, jwksChecker)
	apiHandler := handlers.NewAPIHandler(healthHandler, authSvc, expedientSvc, documentSvc, cfg.Legacy, logger)

	// 12. topologymetrics — мониторинг PostgreSQL
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"wsimagenes",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL("postgres"),
		cfg.DephealthCheckInterval,
		cfg.DephealthIsEntry,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	}

	// 13. HTTP-сервер
	middlewares := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	}
	if jwtMiddleware != nil {
		middlewares = append(middlewares, jwtMiddleware)
	}
	middlewares = append(middlewares, validator)

	srv := server.New(cfg, logger, apiHandler, middlewares...)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("WsImagenes остановлен")
}
