package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/pomodoro-backend/internal/errors"
	"github.com/pribylovaa/pomodoro-backend/internal/limiter"
	logctx "github.com/pribylovaa/pomodoro-backend/internal/pkg/log"
)

// clientUnknown — сентинел для запросов, у которых не удалось определить
// клиента. Такие запросы лимитер пропускает: иначе все неопознанные
// клиенты считались бы в одном ведре и душили бы друг друга.
const clientUnknown = "unknown"

// RateLimit принимает решение принять/отклонить запрос до того, как он
// дойдёт до любого хендлера.
//
// Политика отказов хранилища счётчиков — fail-open: запрос
// пропускается, ошибка логируется. Сломанный Redis не должен делать
// недоступным весь API; это осознанный размен (см. пакет limiter).
func RateLimit(l *limiter.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientIP(r)
			if clientID == clientUnknown {
				logctx.From(r.Context()).Warn("rate_limit_skipped_unknown_client",
					slog.String("path", r.URL.Path),
				)
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), clientID, r.URL.Path)
			if err != nil {
				logctx.From(r.Context()).Error("rate_limit_store_failed",
					slog.String("path", r.URL.Path),
					slog.String("err", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				logctx.From(r.Context()).Warn("rate_limit_exceeded",
					slog.String("client", clientID),
					slog.String("path", r.URL.Path),
					slog.Duration("retry_after", res.RetryAfter),
				)
				apierrors.WriteRateLimited(w, r, res.RetryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP определяет идентификатор клиента:
// X-Forwarded-For (первый адрес) -> X-Real-IP -> peer соединения ->
// сентинел "unknown".
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}

	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return clientUnknown
}
