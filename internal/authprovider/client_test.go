package authprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignInEmailCapturesSessionCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/sign-in/email" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		w.Header().Add("Set-Cookie", "better-auth.session_token=abc; Path=/; HttpOnly")
		json.NewEncoder(w).Encode(map[string]any{
			"token": "sess-token",
			"user":  map[string]string{"id": "prov-1", "email": "a@example.com", "name": "A"},
		})
	}))
	defer srv.Close()

	sess, err := NewClient(srv.URL).SignInEmail(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	if sess.User.ID != "prov-1" || sess.Token != "sess-token" {
		t.Fatalf("session = %+v", sess)
	}
	if len(sess.Cookies) != 1 {
		t.Fatalf("cookies = %v", sess.Cookies)
	}
}

func TestSignInEmailRejectionIsInvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := NewClient(srv.URL).SignInEmail(context.Background(), "a@example.com", "bad")
		srv.Close()
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("status %d: err = %v, want ErrInvalidCredentials", status, err)
		}
	}
}

func TestSignInEmailNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).SignInEmail(context.Background(), "a@example.com", "pw")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestSignUpEmailSurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already in use"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SignUpEmail(context.Background(), "a@example.com", "pw", "A")
	if err == nil || err.Error() != "auth provider sign-up: email already in use" {
		t.Fatalf("err = %v", err)
	}
}

func TestGetSessionNilWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess, err := NewClient(srv.URL).GetSession(context.Background(), "")
	if err != nil {
		t.Fatalf("get-session: %v", err)
	}
	if sess != nil {
		t.Fatalf("session = %+v, want nil", sess)
	}
}

func TestSignOutPresentsCookieHeader(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).SignOut(context.Background(), "session=abc"); err != nil {
		t.Fatalf("sign-out: %v", err)
	}
	if gotCookie != "session=abc" {
		t.Fatalf("cookie header = %q", gotCookie)
	}
}
