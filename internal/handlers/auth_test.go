package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/session"
)

func TestRegisterCreatesWalletAndProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, 0, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "newmodel",
		"password": "secret-password",
		"email":    "newmodel@example.com",
		"role":     "model",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	userID := int(user["id"].(float64))

	ctx := context.Background()
	wallet, err := env.store.GetWallet(ctx, userID)
	if err != nil {
		t.Fatalf("expected wallet for new user: %v", err)
	}
	if wallet.BalanceCents != 0 {
		t.Errorf("new wallet balance = %d, want 0", wallet.BalanceCents)
	}

	profile, err := env.store.GetModelProfile(ctx, userID)
	if err != nil {
		t.Fatalf("expected model profile for model registration: %v", err)
	}
	if profile.VoiceRateCents != models.DefaultVoiceRateCents {
		t.Errorf("voice rate = %d, want default %d", profile.VoiceRateCents, models.DefaultVoiceRateCents)
	}
	if profile.CommissionRateBps != models.DefaultCommissionRateBps {
		t.Errorf("commission = %d, want default %d", profile.CommissionRateBps, models.DefaultCommissionRateBps)
	}
	if profile.IsAvailable {
		t.Error("new models should start unavailable")
	}

	// A session cookie must have been set.
	cookie := findSessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie on registration")
	}
	if id, ok := env.sessions.Get(cookie.Value); !ok || id != userID {
		t.Errorf("session resolves to (%d, %v), want (%d, true)", id, ok, userID)
	}
}

func TestRegisterPlainUserHasNoProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, 0, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "plainuser",
		"password": "secret-password",
		"email":    "plain@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}
	userID := int(decodeBody(t, rec)["user"].(map[string]interface{})["id"].(float64))

	if _, err := env.store.GetModelProfile(context.Background(), userID); err == nil {
		t.Error("plain users must not get a model profile")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken", models.RoleUser, 0)

	rec := env.do(t, 0, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "taken",
		"password": "secret-password",
		"email":    "other@example.com",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, 0, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "alice",
		"password": "secret-password",
		"email":    "alice@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}

	rec = env.do(t, 0, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}

	rec = env.do(t, 0, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "secret-password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookie := findSessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie on login")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	meRec := httptest.NewRecorder()
	env.router.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", meRec.Code)
	}
	me := decodeBody(t, meRec)["user"].(map[string]interface{})
	if me["username"] != "alice" {
		t.Errorf("me username = %v, want alice", me["username"])
	}
	if me["walletBalanceCents"].(float64) != 0 {
		t.Errorf("wallet balance = %v, want 0", me["walletBalanceCents"])
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, 0, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "alice",
		"password": "secret-password",
		"email":    "alice@example.com",
	})
	cookie := findSessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	outRec := httptest.NewRecorder()
	env.router.ServeHTTP(outRec, req)
	if outRec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", outRec.Code)
	}

	// The token must be dead server-side, not just cleared client-side.
	if _, ok := env.sessions.Get(cookie.Value); ok {
		t.Error("session still resolves after logout")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	meRec := httptest.NewRecorder()
	env.router.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", meRec.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, 0, http.MethodGet, "/api/auth/me", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func findSessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}
