package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type memoryIdempotencyStore struct {
	values map[string]string
}

func newMemoryStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func idempotentHandler(calls *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"spend_id":"abc"}}`))
	})
}

func applyRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req.WithContext(WithUserID(req.Context(), uuid.NewString()))
}

func TestIdempotencyRequiresKeyOnGuardedRoute(t *testing.T) {
	var calls atomic.Int64
	handler := Idempotency(newMemoryStore(), nil)(idempotentHandler(&calls))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, applyRequest("", `{"promotion_code":"PCT2509001"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if calls.Load() != 0 {
		t.Fatalf("handler should not run without key, got %d calls", calls.Load())
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var calls atomic.Int64
	store := newMemoryStore()
	handler := Idempotency(store, nil)(idempotentHandler(&calls))
	userID := uuid.NewString()
	key := uuid.NewString()
	body := `{"promotion_code":"PCT2509001"}`

	makeRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", key)
		req = req.WithContext(WithUserID(req.Context(), userID))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	first := makeRequest()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := makeRequest()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", second.Body.String(), first.Body.String())
	}
	if calls.Load() != 1 {
		t.Fatalf("expected handler to run once, got %d", calls.Load())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	var calls atomic.Int64
	store := newMemoryStore()
	handler := Idempotency(store, nil)(idempotentHandler(&calls))
	userID := uuid.NewString()
	key := uuid.NewString()

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", key)
		req = req.WithContext(WithUserID(req.Context(), userID))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	if resp := send(`{"promotion_code":"PCT2509001"}`); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	resp := send(`{"promotion_code":"FIX2509002"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for body mismatch got %d", resp.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected handler to run once, got %d", calls.Load())
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	var calls atomic.Int64
	handler := Idempotency(newMemoryStore(), nil)(idempotentHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected passthrough got %d", resp.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected handler to run, got %d calls", calls.Load())
	}
}
