// Пакет openapi — встроенный OpenAPI-контракт и валидация входящих запросов.
package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	apierrors "github.com/bigkaa/goartstore/wsimagenes/internal/api/errors"
)

//go:embed openapi.yaml
var specData []byte

// Spec загружает и проверяет встроенный контракт.
func Spec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(specData)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки OpenAPI: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("некорректный OpenAPI: %w", err)
	}
	return doc, nil
}

// RequestValidator возвращает middleware проверки запросов по контракту.
// Запросы к путям вне контракта (health, metrics) пропускаются без проверки.
func RequestValidator(logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	doc, err := Spec()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения OpenAPI-роутера: %w", err)
	}

	log := logger.With(slog.String("component", "openapi_validator"))
	opts := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if errors.Is(err, routers.ErrMethodNotAllowed) {
					apierrors.WriteError(w, http.StatusMethodNotAllowed, apierrors.CodeValidationError,
						"Метод не поддерживается")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				log.Debug("Запрос не прошёл валидацию",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationMessage — краткое описание ошибки без дампа схемы.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		return fmt.Sprintf("Некорректный параметр %s: %s", reqErr.Parameter.Name, reqErr.Reason)
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return "Некорректное тело запроса: " + schemaErr.Reason
	}
	if reqErr != nil && reqErr.Reason != "" {
		return "Некорректное тело запроса: " + reqErr.Reason
	}
	return "Некорректный запрос"
}
