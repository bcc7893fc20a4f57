package limiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newTestLimiter поднимает miniredis и собирает лимитер поверх него.
func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(NewRedisStoreFromClient(rdb), limit, window), mr
}

// Первые L запросов в окне проходят, L+1-й получает отказ с retry-подсказкой,
// после истечения окна счётчик начинается заново.
func TestAllow_FixedWindow(t *testing.T) {
	lim, mr := newTestLimiter(t, 3, 60*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := lim.Allow(ctx, "10.0.0.1", "/auth/login")
		require.NoError(t, err)
		require.True(t, res.Allowed, "request %d must be allowed", i+1)
		require.Equal(t, int64(3-i-1), res.Remaining)
	}

	res, err := lim.Allow(ctx, "10.0.0.1", "/auth/login")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, 60*time.Second)

	// Окно истекло — новый счётчик.
	mr.FastForward(61 * time.Second)

	res, err = lim.Allow(ctx, "10.0.0.1", "/auth/login")
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, int64(2), res.Remaining)
}

// Разные клиенты и разные маршруты считаются независимо.
func TestAllow_KeysAreIndependent(t *testing.T) {
	lim, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	res, err := lim.Allow(ctx, "10.0.0.1", "/auth/login")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = lim.Allow(ctx, "10.0.0.1", "/auth/login")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// Другой маршрут того же клиента.
	res, err = lim.Allow(ctx, "10.0.0.1", "/auth/register")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// Тот же маршрут другого клиента.
	res, err = lim.Allow(ctx, "10.0.0.2", "/auth/login")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

// N > L одновременных запросов по одному ключу: ровно L пропущено,
// N-L отклонено — гонка на границе окна не даёт сверхдопуска.
func TestAllow_ConcurrentNoOveradmission(t *testing.T) {
	const (
		limit = 5
		n     = 32
	)

	lim, _ := newTestLimiter(t, limit, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		denied  int
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			res, err := lim.Allow(ctx, "10.0.0.9", "/auth/refresh")
			require.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			if res.Allowed {
				allowed++
			} else {
				denied++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, limit, allowed)
	require.Equal(t, n-limit, denied)
}

// errStore — стаб хранилища, всегда возвращающий ошибку.
type errStore struct{}

func (errStore) IncrWithExpiry(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func (errStore) Close() error { return nil }

// Недоступное хранилище превращается в типизированную ошибку,
// по которой middleware принимает fail-open решение.
func TestAllow_StoreUnavailable(t *testing.T) {
	lim := New(errStore{}, 3, time.Minute)

	_, err := lim.Allow(context.Background(), "10.0.0.1", "/auth/login")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

// Отказ после обрыва TTL (ключ пережил окно без срока) ограничен окном сверху.
func TestAllow_RetryAfterClampedToWindow(t *testing.T) {
	lim, mr := newTestLimiter(t, 1, 30*time.Second)
	ctx := context.Background()

	_, err := lim.Allow(ctx, "10.0.0.1", "/x")
	require.NoError(t, err)

	// Снимаем TTL у ключа, имитируя сбой между INCR и EXPIRE.
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	require.NoError(t, rdb.Persist(ctx, "rate_limit:10.0.0.1:/x").Err())

	res, err := lim.Allow(ctx, "10.0.0.1", "/x")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, 30*time.Second, res.RetryAfter)
}
