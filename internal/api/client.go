package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the notes server. It also carries the signed-in identity.
type Client struct {
	baseURL    string
	token      string
	userID     string
	username   string
	httpClient *http.Client
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

type NoteListResponse struct {
	Notes []Record `json:"notes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is returned for any response with a status >= 400.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSession restores an identity saved from an earlier login.
func (c *Client) SetSession(token, userID, username string) {
	c.token = token
	c.userID = userID
	c.username = username
}

func (c *Client) ClearSession() {
	c.SetSession("", "", "")
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *Client) SignedIn() bool {
	return c.IsConfigured() && c.token != "" && c.userID != ""
}

func (c *Client) UserID() string   { return c.userID }
func (c *Client) Username() string { return c.username }

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

func (c *Client) Register(ctx context.Context, username, password string) (*LoginResponse, error) {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.send(ctx, http.MethodPost, path, LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.SetSession(resp.Token, resp.UserID, resp.Username)
	return &resp, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]Record, error) {
	var resp NoteListResponse
	if err := c.send(ctx, http.MethodGet, "/api/notes", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notes == nil {
		return []Record{}, nil
	}
	return resp.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, rec Record) error {
	return c.send(ctx, http.MethodPost, "/api/notes", rec, nil)
}

func (c *Client) UpdateNote(ctx context.Context, rec Record) error {
	return c.send(ctx, http.MethodPatch, "/api/notes/"+rec.ID, rec, nil)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/notes/"+id, nil, nil)
}

func (c *Client) DeleteAllNotes(ctx context.Context) error {
	return c.send(ctx, http.MethodDelete, "/api/notes", nil, nil)
}

// HTTP helpers

func (c *Client) send(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doRequest(req, result)
}

func (c *Client) doRequest(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		json.Unmarshal(body, &errResp)
		return &StatusError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
