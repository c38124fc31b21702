package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDFrom devuelve el request id que generó (o propagó) middleware.RequestID.
// Si no está en el contexto, cae al header entrante.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if id := middleware.GetReqID(request.Context()); id != "" {
		return id
	}
	return request.Header.Get(RequestIDHeader)
}

// EchoRequestID copia el request id a la respuesta para que el cliente pueda citarlo.
// Debe montarse después de middleware.RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := RequestIDFrom(r); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
