package common_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pizzaparty/backend-pizzeria/internal/common"
)

func newIdem(t *testing.T) common.Idem {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return common.Idem{R: client, TTL: time.Minute}
}

func countingHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdemRejectsReplay(t *testing.T) {
	idem := newIdem(t)
	hits := 0
	h := idem.Middleware(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/checkout/confirm", nil)
	req.Header.Set("Idempotency-Key", "order-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, hits)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 1, hits)
}

func TestIdemDistinctKeysPass(t *testing.T) {
	idem := newIdem(t)
	hits := 0
	h := idem.Middleware(countingHandler(&hits))

	for _, key := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodPost, "/checkout/confirm", nil)
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 3, hits)
}

func TestIdemPassThroughWithoutHeaderOrClient(t *testing.T) {
	idem := newIdem(t)
	hits := 0
	h := idem.Middleware(countingHandler(&hits))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout/confirm", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	disabled := common.Idem{}
	h = disabled.Middleware(countingHandler(&hits))
	req := httptest.NewRequest(http.MethodPost, "/checkout/confirm", nil)
	req.Header.Set("Idempotency-Key", "order-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, hits)
}

func TestIdemKeyExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	idem := common.Idem{R: client, TTL: time.Second}

	hits := 0
	h := idem.Middleware(countingHandler(&hits))
	req := httptest.NewRequest(http.MethodPost, "/checkout/confirm", nil)
	req.Header.Set("Idempotency-Key", "order-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	mr.FastForward(2 * time.Second)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, hits)
}
