package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

type fakeProvider struct {
	session *Session
	err     error
	calls   int
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	f.calls++
	return f.session, f.err
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	f.calls++
	return f.session, f.err
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/signup", h.Signup)
	r.POST("/api/login", h.Login)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	ok := &Session{AccessToken: "at", User: SessionUser{ID: "u1", Email: "ada@example.com"}}

	tests := []struct {
		name       string
		body       string
		provider   *fakeProvider
		setErr     error
		code       int
		calls      int
		registered bool
		warning    bool
	}{
		{
			name:       "Success",
			body:       `{"email":"ada@example.com","password":"secret","firstName":"Ada","lastName":"Lovelace"}`,
			provider:   &fakeProvider{session: ok},
			code:       http.StatusCreated,
			calls:      1,
			registered: true,
		},
		{
			name:     "Blank email",
			body:     `{"email":"  ","password":"secret"}`,
			provider: &fakeProvider{session: ok},
			code:     http.StatusBadRequest,
		},
		{
			name:     "Blank password",
			body:     `{"email":"ada@example.com","password":""}`,
			provider: &fakeProvider{session: ok},
			code:     http.StatusBadRequest,
		},
		{
			name:     "Invalid JSON",
			body:     `{`,
			provider: &fakeProvider{session: ok},
			code:     http.StatusBadRequest,
		},
		{
			name:     "Supabase rejects",
			body:     `{"email":"ada@example.com","password":"secret"}`,
			provider: &fakeProvider{err: &APIError{StatusCode: http.StatusUnprocessableEntity, Body: "weak password"}},
			code:     http.StatusUnprocessableEntity,
			calls:    1,
		},
		{
			name:     "Supabase unreachable",
			body:     `{"email":"ada@example.com","password":"secret"}`,
			provider: &fakeProvider{err: errors.New("dial tcp: refused")},
			code:     http.StatusInternalServerError,
			calls:    1,
		},
		{
			name:     "Profile write fails",
			body:     `{"email":"ada@example.com","password":"secret"}`,
			provider: &fakeProvider{session: ok},
			setErr:   errors.New("disk full"),
			code:     http.StatusCreated,
			calls:    1,
			warning:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStore(t)
			spy := testutil.NewSpyStore(store)
			spy.SetErr = tt.setErr
			users := user.NewService(spy)

			w := postJSON(newRouter(NewHandler(tt.provider, users)), "/api/signup", tt.body)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.calls, tt.provider.calls)

			u, err := users.Get(context.Background(), "u1")
			require.NoError(t, err)
			if tt.registered {
				require.NotNil(t, u)
				assert.Equal(t, "Ada", u.FirstName)
				assert.Equal(t, "ada@example.com", u.Email)
			} else {
				assert.Nil(t, u)
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			_, hasWarning := body["warning"]
			assert.Equal(t, tt.warning, hasWarning)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		p := &fakeProvider{session: &Session{AccessToken: "at", RefreshToken: "rt", User: SessionUser{ID: "u1"}}}
		w := postJSON(newRouter(NewHandler(p, nil)), "/api/login", `{"email":"ada@example.com","password":"secret"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var s Session
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		assert.Equal(t, "at", s.AccessToken)
		assert.Equal(t, "u1", s.User.ID)
	})

	t.Run("Missing password", func(t *testing.T) {
		p := &fakeProvider{}
		w := postJSON(newRouter(NewHandler(p, nil)), "/api/login", `{"email":"ada@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, p.calls)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		p := &fakeProvider{err: &APIError{StatusCode: http.StatusBadRequest, Body: "invalid_grant"}}
		w := postJSON(newRouter(NewHandler(p, nil)), "/api/login", `{"email":"ada@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_grant")
	})
}
