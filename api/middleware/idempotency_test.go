package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/rohankarki/utsavhub-backend/pkg/errors"
)

type fakeIdemStore struct {
	data map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: make(map[string]string)}
}

func (f *fakeIdemStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeIdemStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   time.Duration
		ok     bool
	}{
		{"booking create", http.MethodPost, "/api/v1/bookings", defaultIdempotencyTTL, true},
		{"booking create trailing slash", http.MethodPost, "/api/v1/bookings/", defaultIdempotencyTTL, true},
		{"booking transition", http.MethodPost, "/api/v1/bookings/7e6c1a8e/transition", criticalIdempotencyTTL, true},
		{"media upload", http.MethodPost, "/api/v1/media", defaultIdempotencyTTL, true},
		{"listing publish", http.MethodPost, "/api/v1/vendor/listings", defaultIdempotencyTTL, true},
		{"booking read", http.MethodGet, "/api/v1/bookings", 0, false},
		{"booking get by id", http.MethodGet, "/api/v1/bookings/7e6c1a8e", 0, false},
		{"login", http.MethodPost, "/api/v1/auth/login", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.path)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	store := newFakeIdemStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"listing_id":"a"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencySkipsUnmatchedRoutes(t *testing.T) {
	store := newFakeIdemStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if !handlerCalled {
		t.Fatalf("handler should run for non idempotent routes")
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored for non idempotent routes")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdemStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"booking_id":"b-1"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"listing_id":"a"}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"listing_id":"a"}`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"booking_id":"b-1"}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeIdemStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	target := "/api/v1/bookings/b-1/transition"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"to":"approved"}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"to":"rejected"}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
