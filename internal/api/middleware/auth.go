// auth.go — JWT middleware шлюза WsImagenes.
// Включается, если задан WI_JWT_JWKS_URL: API Gateway передаёт Bearer-токен,
// подпись проверяется через JWKS. Legacy-билеты проверяются отдельно, в сервисном слое.
package middleware

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/goartstore/wsimagenes/internal/api/errors"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "jwt_claims"
)

// AuthClaims — claims вызывающего сервиса.
type AuthClaims struct {
	// Subject — sub из JWT.
	Subject string
	// PreferredUsername — preferred_username из JWT.
	PreferredUsername string
	// ClientID — client_id (для Service Account).
	ClientID string
	// Scopes — scopes из claim "scope".
	Scopes []string
}

// HasScope проверяет наличие указанного scope.
func (c *AuthClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// gatewayClaims — raw claims JWT.
type gatewayClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Scope             string `json:"scope,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
}

// JWTAuth — middleware JWT-аутентификации через JWKS.
type JWTAuth struct {
	jwks      keyfunc.Keyfunc
	logger    *slog.Logger
	issuer    string
	jwtLeeway time.Duration
}

// NewJWTAuth создаёт JWT middleware с фоновым обновлением JWKS.
// caCertPath — опциональный путь к CA-сертификату для TLS.
// issuer — ожидаемый issuer (пустой — не проверяется).
func NewJWTAuth(
	jwksURL string,
	caCertPath string,
	issuer string,
	jwksClientTimeout time.Duration,
	jwksRefreshInterval time.Duration,
	jwtLeeway time.Duration,
	logger *slog.Logger,
) (*JWTAuth, error) {
	httpClient := &http.Client{Timeout: jwksClientTimeout}
	if caCertPath != "" {
		var err error
		httpClient, err = httpClientWithCA(caCertPath, jwksClientTimeout)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата %s: %w", caCertPath, err)
		}
		logger.Info("CA-сертификат для JWKS добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	// NoErrorReturnFirstHTTPReq — стартуем даже если IdP ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           jwksRefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return NewJWTAuthWithKeyfunc(k, issuer, jwtLeeway, logger), nil
}

// NewJWTAuthWithKeyfunc создаёт middleware с готовым keyfunc (статический JWKS в тестах).
func NewJWTAuthWithKeyfunc(k keyfunc.Keyfunc, issuer string, jwtLeeway time.Duration, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		jwks:      k,
		logger:    logger.With(slog.String("component", "jwt_auth")),
		issuer:    issuer,
		jwtLeeway: jwtLeeway,
	}
}

// httpClientWithCA создаёт HTTP-клиент с кастомным CA-сертификатом.
func httpClientWithCA(caCertPath string, timeout time.Duration) (*http.Client, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, err
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs: caCertPool,
			},
		},
	}, nil
}

// Middleware возвращает HTTP middleware: Bearer token, подпись RS256,
// обязательный exp, claims в контексте.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			rawClaims := &gatewayClaims{}
			parserOpts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(j.jwtLeeway),
			}
			if j.issuer != "" {
				parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
			}

			token, err := jwt.ParseWithClaims(tokenString, rawClaims, j.jwks.KeyfuncCtx(r.Context()), parserOpts...)
			if err != nil {
				j.logger.Debug("JWT валидация не пройдена",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}
			if !token.Valid {
				apierrors.Unauthorized(w, "Невалидный токен")
				return
			}

			subject, err := rawClaims.GetSubject()
			if err != nil || subject == "" {
				apierrors.Unauthorized(w, "Отсутствует sub в токене")
				return
			}

			claims := &AuthClaims{
				Subject:           subject,
				PreferredUsername: rawClaims.PreferredUsername,
				ClientID:          rawClaims.ClientID,
				Scopes:            strings.Fields(rawClaims.Scope),
			}
			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext извлекает AuthClaims из контекста запроса или nil.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}

// SubjectFromContext извлекает sub из контекста запроса или "".
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// --- ReadinessChecker для JWKS ---

// JWKSReadinessChecker — проверка доступности JWKS endpoint.
type JWKSReadinessChecker struct {
	jwksURL string
	client  *http.Client
}

// NewJWKSReadinessChecker создаёт checker доступности JWKS.
func NewJWKSReadinessChecker(jwksURL, caCertPath string, readinessTimeout time.Duration) (*JWKSReadinessChecker, error) {
	client := &http.Client{Timeout: readinessTimeout}
	if caCertPath != "" {
		var err error
		client, err = httpClientWithCA(caCertPath, readinessTimeout)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA для readiness checker: %w", err)
		}
	}

	return &JWKSReadinessChecker{
		jwksURL: jwksURL,
		client:  client,
	}, nil
}

const statusFail = "fail"

// CheckReady проверяет, что JWKS отвечает и содержит ключи.
func (k *JWKSReadinessChecker) CheckReady() (status, message string) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, k.jwksURL, http.NoBody)
	if err != nil {
		return statusFail, "ошибка создания запроса: " + err.Error()
	}
	resp, err := k.client.Do(req) //nolint:gosec // URL из конфигурации
	if err != nil {
		return statusFail, fmt.Sprintf("JWKS недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusFail, fmt.Sprintf("JWKS вернул статус %d", resp.StatusCode)
	}

	var jwksResp struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwksResp); err != nil {
		return "degraded", fmt.Sprintf("JWKS: невалидный JSON: %v", err)
	}
	if len(jwksResp.Keys) == 0 {
		return "degraded", "JWKS: нет ключей"
	}

	return "ok", fmt.Sprintf("JWKS доступен, ключей: %d", len(jwksResp.Keys))
}
