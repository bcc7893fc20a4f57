// handlers реализует REST-хендлеры аутентификации поверх пакета service.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/pomodoro-backend/internal/service"
)

// CookieOptions — параметры refresh-куки.
// TTL куки и срок действия зашитого в неё refresh-токена берутся из
// одного поля конфигурации: кука не переживает зашитый в неё exp.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc    *service.Service
	cookie CookieOptions
}

func New(svc *service.Service, cookie CookieOptions) *Handlers {
	return &Handlers{svc: svc, cookie: cookie}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
