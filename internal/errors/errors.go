// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход — типизированная ошибка бизнес-логики (сентинелы пакета
// service) или локальная ошибка парсинга; на выход:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки внутренних деталей.
//
// Детали аутентификационных отказов наружу не различаются: неизвестный
// email, неверный пароль, протухший или битый токен — всё это 401 с
// одинаковым телом.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pribylovaa/pomodoro-backend/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidArgument — локальная ошибка HTTP-слоя: тело запроса не
// распарсилось или не прошло базовую проверку.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
// RetryAfter заполняется только для 429: столько секунд клиенту ждать
// до открытия нового окна.
type ErrorResponse struct {
	Error      APIError `json:"error"`
	RetryAfter int64    `json:"retry_after,omitempty"`
}

// ToHTTP конвертирует ошибку бизнес-логики в HTTP-статус и
// унифицированный ответ.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - известные сентинелы маппятся по таблице ниже;
//   - всё прочее — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id, чтобы фронт мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	writeJSON(w, status, resp)
}

// WriteRateLimited пишет 429 с подсказкой retry_after в секундах.
// Округление вверх: клиент, подождавший retry_after, гарантированно
// попадает в новое окно.
func WriteRateLimited(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	seconds := int64((retryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	resp := ErrorResponse{
		Error: APIError{
			Code:    "rate_limited",
			Message: "rate limit exceeded",
		},
		RetryAfter: seconds,
	}

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	// Retry-After ожидает секунды или HTTP-дату; отдаём секунды.
	w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	writeJSON(w, http.StatusTooManyRequests, resp)
}

// base — таблица маппинга ошибок бизнес-логики на HTTP/код/сообщение.
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"

	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"

	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "already_exists", "already exists"

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMissingSubject):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"

	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
