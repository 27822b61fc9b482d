package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"nexbuzzer-backend/internal/models"
)

func TestMessageThread(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", models.RoleUser, 0)
	bob := env.seedModel(t, "bob", nil)

	send := func(from, to int, content string) {
		rec := env.do(t, from, http.MethodPost, "/api/messages",
			map[string]interface{}{"receiverId": to, "content": content})
		if rec.Code != http.StatusCreated {
			t.Fatalf("send %q: expected 201, got %d: %s", content, rec.Code, rec.Body.String())
		}
	}

	send(alice.ID, bob.ID, "hi")
	send(bob.ID, alice.ID, "hello")
	send(alice.ID, bob.ID, "are you free?")

	rec := env.do(t, alice.ID, http.MethodGet, "/api/messages/"+strconv.Itoa(bob.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("thread: %d", rec.Code)
	}
	msgs := decodeBody(t, rec)["messages"].([]interface{})
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	// Both directions, oldest first.
	contents := []string{}
	for _, m := range msgs {
		contents = append(contents, m.(map[string]interface{})["content"].(string))
	}
	want := []string{"hi", "hello", "are you free?"}
	for i := range want {
		if contents[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, contents[i], want[i])
		}
	}
}

func TestMessageSendToUnknownReceiver(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", models.RoleUser, 0)

	rec := env.do(t, alice.ID, http.MethodPost, "/api/messages",
		map[string]interface{}{"receiverId": 9999, "content": "hi"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMarkReadOnlyByReceiver(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", models.RoleUser, 0)
	bob := env.seedModel(t, "bob", nil)

	rec := env.do(t, alice.ID, http.MethodPost, "/api/messages",
		map[string]interface{}{"receiverId": bob.ID, "content": "hi"})
	msg := decodeBody(t, rec)["message"].(map[string]interface{})
	msgID := int(msg["id"].(float64))
	if msg["isRead"] != false {
		t.Error("new message should start unread")
	}

	path := "/api/messages/" + strconv.Itoa(msgID) + "/read"

	// The sender is not the receiver.
	if rec := env.do(t, alice.ID, http.MethodPut, path, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("sender mark read: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, bob.ID, http.MethodPut, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("receiver mark read: expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"].(map[string]interface{})["isRead"] != true {
		t.Error("expected isRead=true after receiver marks it")
	}
}
