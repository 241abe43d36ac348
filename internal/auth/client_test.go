package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSupabase(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body map[string]string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSignUp(t *testing.T) {
	srv := fakeSupabase(t, func(w http.ResponseWriter, r *http.Request, body map[string]string) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","user":{"id":"u1","email":"ada@example.com"}}`))
	})

	s, err := NewClient(srv.URL+"/", "anon-key").SignUp(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "rt", s.RefreshToken)
}

func TestClientSignUpWithoutUserID(t *testing.T) {
	srv := fakeSupabase(t, func(w http.ResponseWriter, r *http.Request, body map[string]string) {
		_, _ = w.Write([]byte(`{"id":"pending-confirmation"}`))
	})

	_, err := NewClient(srv.URL, "anon-key").SignUp(context.Background(), "ada@example.com", "secret")
	assert.ErrorIs(t, err, ErrNoUserID)
}

func TestClientSignIn(t *testing.T) {
	srv := fakeSupabase(t, func(w http.ResponseWriter, r *http.Request, body map[string]string) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at","user":{"id":"u1"}}`))
	})
	client := NewClient(srv.URL, "anon-key")

	s, err := client.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)

	_, err = client.SignIn(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid_grant")
}

func TestClientRefresh(t *testing.T) {
	srv := fakeSupabase(t, func(w http.ResponseWriter, r *http.Request, body map[string]string) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "rt", body["refresh_token"])
		_, _ = w.Write([]byte(`{"access_token":"fresh"}`))
	})

	s, err := NewClient(srv.URL, "anon-key").Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "fresh", s.AccessToken)
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "anon-key").SignIn(context.Background(), "a@b.c", "x")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
