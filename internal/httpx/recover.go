package httpx

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recoverer atrapa panics de los handlers, los loguea con stack y responde 500
// con el sobre estándar.
// http.ErrAbortHandler se re-lanza: net/http lo usa para cortar la conexión a propósito.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.Error("panic recovered",
					zap.String("request_id", RequestIDFrom(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", recovered),
					zap.ByteString("stack", debug.Stack()),
				)

				if r.Header.Get("Connection") != "Upgrade" {
					Fail(w, http.StatusInternalServerError, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
