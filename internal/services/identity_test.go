package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/mixify/internal/shared"
)

func newTestIdentityService(t *testing.T, ts *httptest.Server) *IdentityService {
	t.Helper()

	srv, err := NewIdentityService(ts.URL, "anon_key")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.httpClient = ts.Client()
	return srv
}

func TestNewIdentityService(t *testing.T) {
	t.Run("rejects missing configuration", func(t *testing.T) {
		if _, err := NewIdentityService("", "key"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if _, err := NewIdentityService("http://localhost", ""); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		srv, err := NewIdentityService("http://localhost:54321/", "key")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if srv.baseURL != "http://localhost:54321" {
			t.Errorf("expected trimmed base URL, got %s", srv.baseURL)
		}
	})
}

func TestIdentitySignIn(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("expected password grant, got %s", r.URL.Query().Get("grant_type"))
		}
		if r.Header.Get("apikey") != "anon_key" {
			t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		if body["password"] != "hunter22" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid login credentials"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "jwt_token",
			"refresh_token": "refresh",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]string{"id": "u1", "email": body["email"]},
		})
	}))
	defer ts.Close()

	srv := newTestIdentityService(t, ts)

	t.Run("returns session on success", func(t *testing.T) {
		session, err := srv.SignInWithPassword(context.Background(), "mara@example.com", "hunter22")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if session.AccessToken != "jwt_token" || session.User.ID != "u1" {
			t.Errorf("unexpected session %+v", session)
		}
		if session.User.Email != "mara@example.com" {
			t.Errorf("unexpected email %s", session.User.Email)
		}
	})

	t.Run("wraps rejection in ErrAuthFailed with server message", func(t *testing.T) {
		_, err := srv.SignInWithPassword(context.Background(), "mara@example.com", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Invalid login credentials" {
			t.Errorf("expected upstream message, got %v", err)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		if _, err := srv.SignInWithPassword(context.Background(), "", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestIdentitySignUp(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "jwt_token",
			"user":         map[string]string{"id": "u_new", "email": "new@example.com"},
		})
	}))
	defer ts.Close()

	srv := newTestIdentityService(t, ts)

	session, err := srv.SignUp(context.Background(), "new@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.User.ID != "u_new" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestIdentitySignOut(t *testing.T) {
	var gotBearer string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotBearer = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	srv := newTestIdentityService(t, ts)

	t.Run("sends user bearer token", func(t *testing.T) {
		if err := srv.SignOut(context.Background(), "jwt_token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotBearer != "Bearer jwt_token" {
			t.Errorf("unexpected bearer %q", gotBearer)
		}
	})

	t.Run("requires a token", func(t *testing.T) {
		if err := srv.SignOut(context.Background(), ""); !errors.Is(err, shared.ErrSessionMissing) {
			t.Errorf("expected ErrSessionMissing, got %v", err)
		}
	})
}

func TestIdentityUserOperations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		switch r.Method {
		case "GET":
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "mara@example.com"})
		case "PUT":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"msg": "password required"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "mara@example.com"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer ts.Close()

	srv := newTestIdentityService(t, ts)

	t.Run("GetUser", func(t *testing.T) {
		user, err := srv.GetUser(context.Background(), "jwt_token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("unexpected user %+v", user)
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		user, err := srv.UpdateUser(context.Background(), "jwt_token", "new_password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("unexpected user %+v", user)
		}
	})

	t.Run("UpdateUser requires password", func(t *testing.T) {
		if _, err := srv.UpdateUser(context.Background(), "jwt_token", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("operations require a token", func(t *testing.T) {
		if _, err := srv.GetUser(context.Background(), ""); !errors.Is(err, shared.ErrSessionMissing) {
			t.Errorf("expected ErrSessionMissing, got %v", err)
		}
	})
}

func TestIdentityResetPassword(t *testing.T) {
	var gotEmail string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/recover" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotEmail = body["email"]
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	srv := newTestIdentityService(t, ts)

	if err := srv.ResetPasswordForEmail(context.Background(), "mara@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmail != "mara@example.com" {
		t.Errorf("expected recovery email, got %q", gotEmail)
	}
}
