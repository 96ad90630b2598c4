// Пакет config — загрузка и валидация конфигурации WsImagenes
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Хранилища билетов.
const (
	TicketStorePostgres = "postgres"
	TicketStoreRedis    = "redis"
)

// Tickets — параметры выдачи сессионных билетов.
type Tickets struct {
	// Длина токена в байтах до base64 (по умолчанию 20)
	LengthBytes int
	// Время жизни билета в минутах (по умолчанию 240)
	TTLMinutes int
	// Хранилище билетов: postgres или redis
	Store string

	// --- Значения профиля, ожидаемые legacy-клиентами ---

	// ProyectoID по умолчанию, если клиент прислал 0 (по умолчанию 3)
	DefaultProjectID int
	// VersionAplicacionID (по умолчанию 1)
	AppVersionID int
	// TiempoVida / TiempoRestante в минутах (по умолчанию = TTLMinutes)
	LifetimeMinutes int
	// TiempoVidaPwd (по умолчанию = TTLMinutes)
	PasswordLifetime int
	// TiempoActualizoPwd (по умолчанию 0)
	PasswordUpdated int
}

// TTL возвращает время жизни билета.
func (t Tickets) TTL() time.Duration {
	return time.Duration(t.TTLMinutes) * time.Minute
}

// Routing — параметры выбора источника документов.
type Routing struct {
	// Дата отсечения в виде MMYYYY, YYYYMM или числа month*10000+year
	Cutoff string
	// Онлайн-источник сообщает «недоступно» вместо ошибки (по умолчанию true)
	FallbackEnabled bool
	// Ширина кода бизнес-единицы в ключе (по умолчанию 2)
	BusinessUnitWidth int
}

// Legacy — управление необязательными полями ответа логина.
type Legacy struct {
	IncludeIP       bool
	IncludeFullName bool
	IncludeUsername bool
}

// Config содержит все параметры конфигурации WsImagenes.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// --- Redis (только для WI_TICKET_STORE=redis) ---

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// --- Файлы ---

	// Базовый каталог документов исторического источника
	FilesBasePath string
	// Путь к PDF, который отдаёт онлайн-источник
	SynthesizedPDFPath string

	// --- Ядро ---

	Tickets Tickets
	Routing Routing
	Legacy  Legacy

	// --- Кэш метаданных документов ---

	CacheMaxSize int
	CacheTTL     time.Duration

	// --- JWT API Gateway (опционально) ---

	// URL JWKS. Пустое значение отключает JWT middleware.
	JWTJWKSURL          string
	JWTIssuer           string
	JWKSCACert          string
	JWKSClientTimeout   time.Duration
	JWKSRefreshInterval time.Duration
	JWTLeeway           time.Duration

	// --- CORS ---

	// Разрешённые origins. Пустой список отключает CORS.
	CORSAllowedOrigins []string

	// --- Мониторинг зависимостей ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration
	DephealthIsEntry       bool

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// WI_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("WI_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("WI_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("WI_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("WI_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("WI_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("WI_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("WI_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("WI_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("WI_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("WI_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	if cfg.DBHost, err = getEnvRequired("WI_DB_HOST"); err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("WI_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("WI_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("WI_DB_NAME"); err != nil {
		return nil, err
	}
	if cfg.DBUser, err = getEnvRequired("WI_DB_USER"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getEnvRequired("WI_DB_PASSWORD"); err != nil {
		return nil, err
	}
	cfg.DBSSLMode = getEnvDefault("WI_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("WI_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Файлы ---

	cfg.FilesBasePath = getEnvDefault("WI_FILES_BASE_PATH", "/data/expedientes")
	cfg.SynthesizedPDFPath = getEnvDefault("WI_SYNTHESIZED_PDF_PATH", "")

	// --- Билеты ---

	if err := loadTickets(cfg); err != nil {
		return nil, err
	}

	// --- Маршрутизация ---

	cfg.Routing.Cutoff = getEnvDefault("WI_ROUTING_CUTOFF", "102025")
	cfg.Routing.FallbackEnabled, err = getEnvBool("WI_ROUTING_FALLBACK_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("WI_ROUTING_FALLBACK_ENABLED: %w", err)
	}
	cfg.Routing.BusinessUnitWidth, err = getEnvInt("WI_BUSINESS_UNIT_WIDTH", 2)
	if err != nil {
		return nil, fmt.Errorf("WI_BUSINESS_UNIT_WIDTH: %w", err)
	}
	if cfg.Routing.BusinessUnitWidth <= 0 {
		return nil, fmt.Errorf("WI_BUSINESS_UNIT_WIDTH: значение должно быть > 0")
	}

	// --- Legacy-ответы ---

	if cfg.Legacy.IncludeIP, err = getEnvBool("WI_LEGACY_INCLUDE_IP", false); err != nil {
		return nil, fmt.Errorf("WI_LEGACY_INCLUDE_IP: %w", err)
	}
	if cfg.Legacy.IncludeFullName, err = getEnvBool("WI_LEGACY_INCLUDE_FULL_NAME", false); err != nil {
		return nil, fmt.Errorf("WI_LEGACY_INCLUDE_FULL_NAME: %w", err)
	}
	if cfg.Legacy.IncludeUsername, err = getEnvBool("WI_LEGACY_INCLUDE_USERNAME", false); err != nil {
		return nil, fmt.Errorf("WI_LEGACY_INCLUDE_USERNAME: %w", err)
	}

	// --- Кэш ---

	cfg.CacheMaxSize, err = getEnvInt("WI_CACHE_MAX_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("WI_CACHE_MAX_SIZE: %w", err)
	}
	if cfg.CacheMaxSize < 1 {
		return nil, fmt.Errorf("WI_CACHE_MAX_SIZE: значение должно быть > 0")
	}
	cfg.CacheTTL, err = getEnvDuration("WI_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("WI_CACHE_TTL: %w", err)
	}

	// --- JWT ---

	cfg.JWTJWKSURL = getEnvDefault("WI_JWT_JWKS_URL", "")
	cfg.JWTIssuer = getEnvDefault("WI_JWT_ISSUER", "")
	cfg.JWKSCACert = getEnvDefault("WI_JWKS_CA_CERT", "")
	cfg.JWKSClientTimeout, err = getEnvDuration("WI_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_JWKS_CLIENT_TIMEOUT: %w", err)
	}
	cfg.JWKSRefreshInterval, err = getEnvDuration("WI_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("WI_JWKS_REFRESH_INTERVAL: %w", err)
	}
	cfg.JWTLeeway, err = getEnvDuration("WI_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_JWT_LEEWAY: %w", err)
	}

	// --- CORS ---

	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("WI_CORS_ALLOWED_ORIGINS", ""))

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("WI_DEPHEALTH_GROUP", "wsimagenes")
	cfg.DephealthCheckInterval, err = getEnvDuration("WI_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthIsEntry, err = getEnvBool("DEPHEALTH_ISENTRY", false)
	if err != nil {
		return nil, fmt.Errorf("DEPHEALTH_ISENTRY: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("WI_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("WI_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadTickets заполняет параметры билетов и хранилища билетов.
func loadTickets(cfg *Config) error {
	var err error
	t := &cfg.Tickets

	t.LengthBytes, err = getEnvInt("WI_TICKET_LENGTH_BYTES", 20)
	if err != nil {
		return fmt.Errorf("WI_TICKET_LENGTH_BYTES: %w", err)
	}
	if t.LengthBytes < 1 {
		return fmt.Errorf("WI_TICKET_LENGTH_BYTES: значение должно быть > 0")
	}

	t.TTLMinutes, err = getEnvInt("WI_TICKET_TTL_MINUTES", 240)
	if err != nil {
		return fmt.Errorf("WI_TICKET_TTL_MINUTES: %w", err)
	}

	t.Store = getEnvDefault("WI_TICKET_STORE", TicketStorePostgres)
	switch t.Store {
	case TicketStorePostgres:
	case TicketStoreRedis:
		cfg.RedisAddr, err = getEnvRequired("WI_REDIS_ADDR")
		if err != nil {
			return err
		}
		cfg.RedisPassword = getEnvDefault("WI_REDIS_PASSWORD", "")
		cfg.RedisDB, err = getEnvInt("WI_REDIS_DB", 0)
		if err != nil {
			return fmt.Errorf("WI_REDIS_DB: %w", err)
		}
	default:
		return fmt.Errorf("WI_TICKET_STORE: недопустимое значение %q, допустимые: postgres, redis", t.Store)
	}

	if t.DefaultProjectID, err = getEnvInt("WI_TICKET_DEFAULT_PROJECT_ID", 3); err != nil {
		return fmt.Errorf("WI_TICKET_DEFAULT_PROJECT_ID: %w", err)
	}
	if t.AppVersionID, err = getEnvInt("WI_TICKET_APP_VERSION_ID", 1); err != nil {
		return fmt.Errorf("WI_TICKET_APP_VERSION_ID: %w", err)
	}
	if t.LifetimeMinutes, err = getEnvInt("WI_TICKET_LIFETIME", t.TTLMinutes); err != nil {
		return fmt.Errorf("WI_TICKET_LIFETIME: %w", err)
	}
	if t.PasswordLifetime, err = getEnvInt("WI_TICKET_PASSWORD_LIFETIME", t.TTLMinutes); err != nil {
		return fmt.Errorf("WI_TICKET_PASSWORD_LIFETIME: %w", err)
	}
	if t.PasswordUpdated, err = getEnvInt("WI_TICKET_PASSWORD_UPDATED", 0); err != nil {
		return fmt.Errorf("WI_TICKET_PASSWORD_UPDATED: %w", err)
	}

	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL для golang-migrate и dephealth.
func (c *Config) DatabaseURL(scheme string) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s:%d/%s?sslmode=%s",
		scheme, c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseCSV разбирает строку через запятую, отбрасывая пустые элементы.
func parseCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
