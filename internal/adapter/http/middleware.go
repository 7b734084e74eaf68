package httpadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	scopeKey
)

// CallerHeader carries the caller identity resolved into a scope.
const CallerHeader = "X-User-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 8)
		_, _ = rand.Read(b)
		rid := hex.EncodeToString(b)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, rid))
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			rid, _ := r.Context().Value(requestIDKey).(string)
			log.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("rid", rid),
				slog.Duration("latency", time.Since(start)))
		})
	}
}

// withScope resolves the caller's scope and aborts with 401 before any
// handler runs when it cannot be resolved.
func (h *Handler) withScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := h.scopes.Resolve(r.Context(), r.Header.Get(CallerHeader))
		if err != nil {
			if errors.Is(err, port.ErrScopeNotResolved) {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			h.logger.Error("scope resolution error", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal error", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey, scope)))
	})
}

func scopeFrom(ctx context.Context) domain.Scope {
	scope, _ := ctx.Value(scopeKey).(domain.Scope)
	return scope
}
