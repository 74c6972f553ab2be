package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"ganspro/internal/model"
)

// ErrRequestInFlight is returned when Login or Signup is called while an
// earlier submission has not settled yet.
var ErrRequestInFlight = errors.New("an authentication request is already in flight")

// Session is the result of a settled authentication flow: who the user is
// and which area they should land on.
type Session struct {
	Identity model.Identity
	Target   string
}

// Client drives the browser-side authentication flow against the server:
// submit credentials, await verification, read the issued session and pick
// the navigation target. At most one submission may be in flight.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	inFlight bool
}

// New creates a Client for the given server base URL. The cookie jar holds
// the session cookie between calls, like a browser would.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

func (c *Client) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrRequestInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Client) settle() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			// Surface the server's generic message untouched.
			return resp.StatusCode, errors.New(errResp.Error)
		}
		return resp.StatusCode, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// sessionInfo reads the identity for the freshly issued session cookie.
func (c *Client) sessionInfo(ctx context.Context) (model.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/session-info", nil)
	if err != nil {
		return model.Identity{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Identity{}, fmt.Errorf("session info failed with status %d", resp.StatusCode)
	}
	var identity model.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return model.Identity{}, fmt.Errorf("failed to decode session info: %w", err)
	}
	return identity, nil
}

// Login submits credentials and resolves the navigation target from the
// issued session's role claim: admins land on the dashboard, everyone else
// on the student portal.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.settle()

	return c.login(ctx, email, password)
}

func (c *Client) login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	if _, err := c.postJSON(ctx, "/auth/login", body, nil); err != nil {
		return nil, err
	}

	identity, err := c.sessionInfo(ctx)
	if err != nil {
		return nil, err
	}

	target := "/studentportal"
	if identity.Role == model.RoleAdmin {
		target = "/dashboard"
	}
	return &Session{Identity: identity, Target: target}, nil
}

// Signup registers a new account and logs it in immediately, mirroring the
// signup form's auto-login behavior.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.settle()

	body := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.postJSON(ctx, "/auth/signup", body, nil); err != nil {
		return nil, err
	}

	return c.login(ctx, email, password)
}

// Logout clears the server-side session cookie.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.settle()

	_, err := c.postJSON(ctx, "/auth/logout", map[string]string{}, nil)
	return err
}
