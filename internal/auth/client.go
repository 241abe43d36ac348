// Package auth délègue l'inscription et la connexion à Supabase Auth.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Session renvoyée par Supabase après inscription, connexion ou rafraîchissement
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	User         SessionUser `json:"user"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError porte le statut et le corps d'une réponse d'erreur Supabase
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase auth: statut %d: %s", e.StatusCode, e.Body)
}

var ErrNoUserID = errors.New("aucun ID utilisateur renvoyé par Supabase")

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, anonKey string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// SignUp crée le compte. Sans confirmation par mail, la réponse contient l'utilisateur.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	s, err := c.post(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if s.User.ID == "" {
		return nil, ErrNoUserID
	}
	return s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return c.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*Session, error) {
	var session Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&session).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("appel supabase %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &session, nil
}
