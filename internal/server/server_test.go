package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/feed"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/like"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/testutil"
)

const secret = "router-secret"

type fakeSupabase struct{}

func (fakeSupabase) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	id, _, _ := strings.Cut(email, "@")
	return &auth.Session{AccessToken: "at", User: auth.SessionUser{ID: id, Email: email}}, nil
}

func (fakeSupabase) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return &auth.Session{AccessToken: "at"}, nil
}

func (fakeSupabase) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	return &auth.Session{}, nil
}

func token(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.JWTSecret = secret
	return NewRouter(cfg, testutil.NewStore(t), fakeSupabase{})
}

func do(t *testing.T, r http.Handler, method, path, bearer string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodPatch, "/api/me"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/p1/like"},
	} {
		w := do(t, r, route.method, route.path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestFeedLifecycle(t *testing.T) {
	r := newTestRouter(t)

	// Inscription
	w := do(t, r, http.MethodPost, "/api/signup", "",
		bytes.NewBufferString(`{"email":"ada@example.com","password":"secret","firstName":"Ada"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Publication
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("text", "premier post"))
	require.NoError(t, mw.Close())
	w = do(t, r, http.MethodPost, "/api/posts", token(t, "ada"), &form, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Post post.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Post.ID)
	assert.Equal(t, "ada", created.Post.Username)

	// Like par un autre utilisateur
	w = do(t, r, http.MethodPost, "/api/posts/"+created.Post.ID+"/like", token(t, "bob"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status like.LikeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, like.LikeResponse{PostID: created.Post.ID, LikeCount: 1, IsLiked: true}, status)

	loadFeed := func(bearer string) []feed.PostWithAuthor {
		w := do(t, r, http.MethodGet, "/api/feed", bearer, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Posts []feed.PostWithAuthor `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Posts
	}

	items := loadFeed(token(t, "bob"))
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Post.Likes)
	assert.True(t, items[0].Liked)
	require.NotNil(t, items[0].Author)
	assert.Equal(t, "Ada", items[0].Author.FirstName)

	items = loadFeed("")
	require.Len(t, items, 1)
	assert.False(t, items[0].Liked)

	// Statut public
	w = do(t, r, http.MethodGet, "/api/posts/"+created.Post.ID+"/likes", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, int64(1), status.LikeCount)
	assert.False(t, status.IsLiked)
}
