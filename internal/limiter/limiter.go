// limiter реализует fixed-window лимитер запросов поверх внешнего
// хранилища счётчиков.
//
// Пакет владеет только политикой (лимит L, окно W, схема ключей);
// хранение и атомарность инкремента — обязанность CounterStore.
// Инкременты по одному ключу линеаризуемы (атомарный INCR в Redis),
// разные ключи обрабатываются полностью параллельно.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable — хранилище счётчиков недоступно.
// Вызывающая сторона (middleware) обязана трактовать эту ошибку как
// fail-open: пропустить запрос и записать ошибку в лог. Недоступный
// Redis не должен ронять весь API — осознанный размен строгости
// защиты от абьюза на доступность.
var ErrStoreUnavailable = errors.New("counter store unavailable")

// CounterStore — контракт хранилища счётчиков с истекающими окнами.
type CounterStore interface {
	// IncrWithExpiry атомарно инкрементирует счётчик по ключу.
	// Для нового ключа заводит счётчик со значением 1 и TTL=window.
	// Возвращает значение счётчика после инкремента и остаток TTL окна.
	IncrWithExpiry(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	// Close закрывает соединение с хранилищем.
	Close() error
}

// Result — решение лимитера по одному запросу.
type Result struct {
	// Allowed — пропустить ли запрос.
	Allowed bool
	// Remaining — сколько запросов осталось в текущем окне.
	Remaining int64
	// RetryAfter — через сколько откроется окно (заполнен при отказе).
	RetryAfter time.Duration
}

// Limiter применяет политику fixed-window к паре (клиент, маршрут).
type Limiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
}

// New создаёт лимитер с заданными лимитом и окном.
func New(store CounterStore, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  int64(limit),
		window: window,
	}
}

// Allow принимает решение по одному запросу пары (clientID, route).
//
// Счётчик инкрементируется и при отказе: знание точного числа попыток
// сверх лимита ничего не даёт клиенту, а решение остаётся одним
// атомарным обращением к хранилищу — гонка «оба успели до границы
// count==L» невозможна.
func (l *Limiter) Allow(ctx context.Context, clientID, route string) (Result, error) {
	const op = "limiter.Allow"

	key := fmt.Sprintf("rate_limit:%s:%s", clientID, route)

	count, ttl, err := l.store.IncrWithExpiry(ctx, key, l.window)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:   count <= l.limit,
		Remaining: remaining,
	}

	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 || res.RetryAfter > l.window {
			res.RetryAfter = l.window
		}
	}

	return res, nil
}

// Limit возвращает настроенный лимит окна.
func (l *Limiter) Limit() int64 { return l.limit }

// Window возвращает настроенную длительность окна.
func (l *Limiter) Window() time.Duration { return l.window }
