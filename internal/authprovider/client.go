package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("auth provider unavailable")
)

// User is the auth provider's user record. Its ID is the provider's own
// identifier and is not interchangeable with the task service's user id.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProviderSession is the provider-side session created by a successful
// sign-in. Cookies carries the provider's Set-Cookie values so a later
// sign-out can present them back.
type ProviderSession struct {
	User    User
	Token   string
	Cookies []string
}

// Client talks to the external auth provider's email sign-in surface. It is
// optional: a nil *Client means no provider is configured.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type signInResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (c *Client) SignInEmail(ctx context.Context, email, password string) (ProviderSession, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/api/auth/sign-in/email", body, "")
	if err != nil {
		return ProviderSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return ProviderSession{}, ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ProviderSession{}, fmt.Errorf("auth provider sign-in: HTTP %d", resp.StatusCode)
	}

	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ProviderSession{}, fmt.Errorf("%w: invalid sign-in response", ErrUnavailable)
	}
	if parsed.User.ID == "" {
		return ProviderSession{}, ErrInvalidCredentials
	}
	return ProviderSession{
		User:    parsed.User,
		Token:   parsed.Token,
		Cookies: resp.Header.Values("Set-Cookie"),
	}, nil
}

func (c *Client) SignUpEmail(ctx context.Context, email, password, name string) (User, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	resp, err := c.post(ctx, "/api/auth/sign-up/email", body, "")
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return User{}, fmt.Errorf("auth provider sign-up: %s", readErrorMessage(resp))
	}
	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return User{}, fmt.Errorf("%w: invalid sign-up response", ErrUnavailable)
	}
	if parsed.User.ID == "" {
		return User{}, errors.New("auth provider sign-up: empty user")
	}
	return parsed.User, nil
}

// GetSession returns the provider session bound to the given Cookie header,
// or nil when the provider reports no session.
func (c *Client) GetSession(ctx context.Context, cookieHeader string) (*ProviderSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil, err
	}
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.User.ID == "" {
		return nil, nil
	}
	return &ProviderSession{User: parsed.User, Token: parsed.Token}, nil
}

func (c *Client) SignOut(ctx context.Context, cookieHeader string) error {
	resp, err := c.post(ctx, "/api/auth/sign-out", map[string]string{}, cookieHeader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("auth provider sign-out: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, cookieHeader string) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func readErrorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Err != "" {
			return body.Err
		}
	}
	return "HTTP " + strconv.Itoa(resp.StatusCode)
}
