package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testStore runs an in-process Valkey stand-in and returns a store backed
// by it.
func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, false), mr
}

func TestCreateAndGetRoundtrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	want := &Data{UserID: uuid.New(), Email: "creator@example.com", DisplayName: "Creator"}
	id, err := store.Create(ctx, rr, want)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session ID")
	}

	// Cookie must carry the ID back.
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if cookie.Value != id {
		t.Errorf("cookie value: got %q, want %q", cookie.Value, id)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)

	got, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.UserID != want.UserID || got.Email != want.Email {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestGetWithoutCookie(t *testing.T) {
	store, _ := testStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil session for cookieless request")
	}
}

func TestGetExpiredSession(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	id, err := store.Create(ctx, rr, &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Jump past the TTL.
	mr.FastForward(DefaultTTL + time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})

	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil session after expiry")
	}
}

func TestDestroyReturnsID(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rr := httptest.NewRecorder()
	id, err := store.Create(ctx, rr, &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})

	rr2 := httptest.NewRecorder()
	if got := store.Destroy(ctx, rr2, req); got != id {
		t.Errorf("destroyed ID: got %q, want %q", got, id)
	}

	// Session must be gone.
	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("session survived Destroy")
	}

	// Cookie must be expired.
	for _, c := range rr2.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge != -1 {
			t.Error("session cookie not expired")
		}
	}
}

func TestDestroyWithoutCookie(t *testing.T) {
	store, _ := testStore(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	if got := store.Destroy(context.Background(), rr, req); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}
}

func TestIDFromRequest(t *testing.T) {
	store, _ := testStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := store.ID(req); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	if got := store.ID(req); got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}
