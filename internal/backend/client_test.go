package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/taskdeck/webapp/internal/contracts"
)

func TestLoginParsesAuthResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if creds.Email != "a@example.com" || creds.Password != "pw" {
			t.Fatalf("credentials = %+v", creds)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"user":         map[string]string{"id": "user-12345678", "email": "a@example.com"},
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "tok-1" || resp.User.ID != "user-12345678" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestNonSuccessBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "a@example.com", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "Incorrect email or password" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestErrorBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListTasks(context.Background(), "tok", "user-12345678", "all")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "HTTP 500" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).ListTasks(context.Background(), "tok", "user-12345678", "all")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGarbageSuccessBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListTasks(context.Background(), "tok", "user-12345678", "all")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestListTasksDefaultsCompletedToAll(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Fatalf("authorization = %q", auth)
		}
		json.NewEncoder(w).Encode(TaskList{})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).ListTasks(context.Background(), "tok", "user-12345678", ""); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Get("completed") != "all" {
		t.Fatalf("completed = %q", got.Get("completed"))
	}
}

func TestSearchTasksForwardsQueryVerbatim(t *testing.T) {
	var gotPath string
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		got = r.URL.Query()
		json.NewEncoder(w).Encode(TaskList{Tasks: []contracts.Task{{ID: 1, Title: "t"}}, Count: 1})
	}))
	defer srv.Close()

	query := url.Values{}
	query.Set("search", "report")
	query.Add("priority", "high")
	query.Add("priority", "urgent")
	query.Set("tags", "work,urgent")
	query.Set("completed", "false")

	list, err := NewClient(srv.URL).SearchTasks(context.Background(), "tok", "user-12345678", query)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotPath != "/api/user-12345678/tasks" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(got["priority"]) != 2 || got["priority"][0] != "high" || got["priority"][1] != "urgent" {
		t.Fatalf("priority = %v", got["priority"])
	}
	if got.Get("tags") != "work,urgent" {
		t.Fatalf("tags = %q", got.Get("tags"))
	}
	if list.Count != 1 {
		t.Fatalf("count = %d", list.Count)
	}
}

func TestDeleteTaskAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/user-12345678/tasks/42" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).DeleteTask(context.Background(), "tok", "user-12345678", 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestToggleTaskSendsCompletedPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %s", r.Method)
		}
		var body map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !body["completed"] {
			t.Fatalf("body = %v", body)
		}
		json.NewEncoder(w).Encode(contracts.Task{ID: 7, Completed: true})
	}))
	defer srv.Close()

	task, err := NewClient(srv.URL).ToggleTask(context.Background(), "tok", "user-12345678", 7, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !task.Completed {
		t.Fatal("task not completed")
	}
}

func TestChatCarriesConversationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user-12345678/chat" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		var body struct {
			ConversationID *int64 `json:"conversation_id"`
			Message        string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.ConversationID == nil || *body.ConversationID != 5 {
			t.Fatalf("conversation_id = %v", body.ConversationID)
		}
		json.NewEncoder(w).Encode(ChatResponse{ConversationID: 5, Response: "done"})
	}))
	defer srv.Close()

	id := int64(5)
	resp, err := NewClient(srv.URL).Chat(context.Background(), "tok", "user-12345678", &id, "add milk")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.ConversationID != 5 || resp.Response != "done" {
		t.Fatalf("resp = %+v", resp)
	}
}
