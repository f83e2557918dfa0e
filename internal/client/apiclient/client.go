// Package apiclient is a typed HTTP client for the bookstore API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	server string
	http   *http.Client
}

// Error is a non-2xx response. Message is the server's {"error": ...} text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func New(server string, httpClient *http.Client) *Client {
	server = strings.TrimRight(server, "/")
	if server == "" {
		server = "http://localhost:8080"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{server: server, http: httpClient}
}

type Credentials struct {
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey,omitempty"`
}

type authResponse struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

func (r authResponse) identity() *domain.Identity {
	id := r.User.Identity()
	id.Token = r.Token
	return id
}

// Signup registers an account. With a non-empty AdminKey it uses the
// escalation endpoint. The returned identity carries the bearer token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	path := "/users/signup"
	if creds.AdminKey != "" {
		path = "/users/create-admin-key"
	}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, path, "", creds, &out); err != nil {
		return nil, err
	}
	return out.identity(), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	var out authResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/login", "", Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return out.identity(), nil
}

func (c *Client) CreateAdmin(ctx context.Context, token string, creds Credentials) (*domain.User, error) {
	creds.AdminKey = ""
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/admin/user/create-admin", token, creds, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetUserAdmin(ctx context.Context, token, userID string, isAdmin bool) (*domain.User, error) {
	var out authResponse
	path := "/admin/user/" + url.PathEscape(userID) + "/admin"
	if err := c.doJSON(ctx, http.MethodPut, path, token, map[string]bool{"isAdmin": isAdmin}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListBooks(ctx context.Context, category string) ([]domain.Book, error) {
	path := "/books"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out []domain.Book
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var out domain.Book
	if err := c.doJSON(ctx, http.MethodGet, "/books/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookPayload is the create/update body. A nil Price is left out of the
// request so the server reports it as missing instead of storing 0.
type BookPayload struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
}

func (c *Client) CreateBook(ctx context.Context, token string, b BookPayload) (*domain.Book, error) {
	var out domain.Book
	if err := c.doJSON(ctx, http.MethodPost, "/books", token, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBook(ctx context.Context, token, id string, b BookPayload) (*domain.Book, error) {
	var out domain.Book
	if err := c.doJSON(ctx, http.MethodPut, "/books/"+url.PathEscape(id), token, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBook(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), token, nil, nil)
}

type Card struct {
	Number string `json:"cardNumber"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

func (c *Client) Purchase(ctx context.Context, token, bookID string, card Card, idempotencyKey string) (*domain.Purchase, error) {
	var out struct {
		Purchase domain.Purchase `json:"purchase"`
	}
	path := "/books/" + url.PathEscape(bookID) + "/purchase"
	if err := c.do(ctx, http.MethodPost, path, token, card, &out, idempotencyKey); err != nil {
		return nil, err
	}
	return &out.Purchase, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	return c.do(ctx, method, path, token, body, out, "")
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any, idempotencyKey string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	resBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(resBody))
		if json.Unmarshal(resBody, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(resBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
