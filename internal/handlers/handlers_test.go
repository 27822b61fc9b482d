package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/rtc"
	"nexbuzzer-backend/internal/session"
	"nexbuzzer-backend/internal/store"
	ws "nexbuzzer-backend/internal/websocket"
)

// testEnv wires the full route table against the in-memory store.
type testEnv struct {
	store    *store.Memory
	sessions *session.MemoryStore
	calls    *CallHandler
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	sessions := session.NewMemoryStore(time.Hour)
	issuer := rtc.NewIssuer("test-key")
	hub := ws.NewHub()
	go hub.Run()

	authHandler := NewAuthHandler(st, sessions)
	userHandler := NewUserHandler(st)
	modelHandler := NewModelHandler(st, sessions)
	callHandler := NewCallHandler(st, issuer)
	scheduledHandler := NewScheduledCallHandler(st)
	messageHandler := NewMessageHandler(st, hub)
	favoriteHandler := NewFavoriteHandler(st)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/models", modelHandler.ListModels)
	api.GET("/models/:id", modelHandler.GetModel)

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(sessions))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/users/:userId", userHandler.GetUser)
	protected.PUT("/users/:userId", userHandler.UpdateUser)
	protected.PUT("/models/:id", modelHandler.UpdateModel)
	protected.GET("/calls", callHandler.ListUserCalls)
	protected.POST("/calls", callHandler.StartCall)
	protected.GET("/calls/model", callHandler.ListModelCalls)
	protected.PUT("/calls/:id/end", callHandler.EndCall)
	protected.GET("/scheduled-calls", scheduledHandler.ListScheduledCalls)
	protected.POST("/scheduled-calls", scheduledHandler.ScheduleCall)
	protected.PUT("/scheduled-calls/:callId", scheduledHandler.UpdateScheduledCall)
	protected.POST("/messages", messageHandler.SendMessage)
	protected.GET("/messages/:userId", messageHandler.GetThread)
	protected.PUT("/messages/:id/read", messageHandler.MarkRead)
	protected.GET("/favorites", favoriteHandler.ListFavorites)
	protected.POST("/favorites", favoriteHandler.AddFavorite)
	protected.DELETE("/favorites/:modelId", favoriteHandler.RemoveFavorite)

	return &testEnv{store: st, sessions: sessions, calls: callHandler, router: r}
}

// seedUser creates a user with a wallet and returns it.
func (e *testEnv) seedUser(t *testing.T, username, role string, balanceCents int) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		Role:         role,
	}
	if err := e.store.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	if err := e.store.CreateWallet(context.Background(), u.ID); err != nil {
		t.Fatalf("seed wallet %s: %v", username, err)
	}
	e.store.SetBalance(u.ID, balanceCents)
	return u
}

// seedModel creates a model user with profile defaults overridden by fn.
func (e *testEnv) seedModel(t *testing.T, username string, fn func(*models.ModelProfile)) models.User {
	t.Helper()
	u := e.seedUser(t, username, models.RoleModel, 0)
	p := models.ModelProfile{
		UserID:            u.ID,
		Languages:         models.StringList{"en"},
		Categories:        models.StringList{"chat"},
		OfferVoiceCalls:   true,
		OfferVideoCalls:   true,
		VoiceRateCents:    models.DefaultVoiceRateCents,
		VideoRateCents:    models.DefaultVideoRateCents,
		IsAvailable:       true,
		CommissionRateBps: models.DefaultCommissionRateBps,
		ProfileImages:     models.StringList{},
	}
	if fn != nil {
		fn(&p)
	}
	if err := e.store.CreateModelProfile(context.Background(), &p); err != nil {
		t.Fatalf("seed model profile %s: %v", username, err)
	}
	return u
}

// do performs a request as the given user (0 = anonymous).
func (e *testEnv) do(t *testing.T, userID int, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token := e.sessions.Create(userID)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func callPath(id int) string {
	return "/api/calls/" + strconv.Itoa(id) + "/end"
}

func profileRateUpdate(voiceRateCents int) store.ProfileUpdate {
	return store.ProfileUpdate{VoiceRateCents: &voiceRateCents}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}
