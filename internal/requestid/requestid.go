// Пакет requestid — идентификатор запроса в context.Context.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header — HTTP-заголовок идентификатора запроса.
const Header = "X-Request-ID"

type ctxKey struct{}

// NewContext возвращает контекст с идентификатором id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext возвращает идентификатор из контекста или "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Ensure возвращает идентификатор из контекста или новый UUID.
func Ensure(ctx context.Context) string {
	if id := FromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
