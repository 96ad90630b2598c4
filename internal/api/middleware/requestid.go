package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/wsimagenes/internal/requestid"
)

// RequestID возвращает middleware, присваивающий запросу идентификатор.
// Входящий X-Request-ID сохраняется, иначе генерируется UUID.
// Идентификатор доступен через requestid.FromContext и возвращается в ответе.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestid.Header)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(requestid.Header, id)
			next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
		})
	}
}
