package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"nexbuzzer-backend/internal/models"
)

func TestFavoriteAddAndRemove(t *testing.T) {
	env := newTestEnv(t)
	model := env.seedModel(t, "model1", nil)
	user := env.seedUser(t, "fan1", models.RoleUser, 0)

	body := map[string]interface{}{"modelId": model.ID}

	rec := env.do(t, user.ID, http.MethodPost, "/api/favorites", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Adding the same favorite again is rejected.
	rec = env.do(t, user.ID, http.MethodPost, "/api/favorites", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate add: expected 400, got %d", rec.Code)
	}

	rec = env.do(t, user.ID, http.MethodGet, "/api/favorites", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	favorites := decodeBody(t, rec)["favorites"].([]interface{})
	if len(favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favorites))
	}
	card := favorites[0].(map[string]interface{})
	if card["isFavorite"] != true {
		t.Error("expected isFavorite=true on favorite card")
	}

	path := "/api/favorites/" + strconv.Itoa(model.ID)
	if rec := env.do(t, user.ID, http.MethodDelete, path, nil); rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", rec.Code)
	}

	// Removing a non-existent favorite fails.
	if rec := env.do(t, user.ID, http.MethodDelete, path, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", rec.Code)
	}
}

func TestFavoriteRequiresModel(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "fan1", models.RoleUser, 0)
	other := env.seedUser(t, "plain", models.RoleUser, 0)

	rec := env.do(t, user.ID, http.MethodPost, "/api/favorites",
		map[string]interface{}{"modelId": other.ID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 favoriting a non-model, got %d", rec.Code)
	}
}

func TestFavoriteStatusOnDirectory(t *testing.T) {
	env := newTestEnv(t)
	model := env.seedModel(t, "model1", nil)
	user := env.seedUser(t, "fan1", models.RoleUser, 0)

	rec := env.do(t, user.ID, http.MethodPost, "/api/favorites",
		map[string]interface{}{"modelId": model.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add favorite: %d", rec.Code)
	}

	rec = env.do(t, user.ID, http.MethodGet, "/api/models", nil)
	cards := decodeBody(t, rec)["models"].([]interface{})
	if len(cards) != 1 {
		t.Fatalf("expected 1 model, got %d", len(cards))
	}
	if cards[0].(map[string]interface{})["isFavorite"] != true {
		t.Error("expected directory card to show isFavorite=true")
	}

	// Anonymous visitors never see favorite status.
	rec = env.do(t, 0, http.MethodGet, "/api/models", nil)
	cards = decodeBody(t, rec)["models"].([]interface{})
	if cards[0].(map[string]interface{})["isFavorite"] != false {
		t.Error("expected isFavorite=false for anonymous request")
	}
}
