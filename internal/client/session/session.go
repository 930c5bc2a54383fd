package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fi-collar/pet-tracker/internal/client/tokencache"
	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/rs/zerolog"
)

const loginURI = "auth/login"

// LoginResponse represents the response from the login endpoint.
type LoginResponse struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client logs in to the TryFi API and hands out session ids.
type Client struct {
	loginURL string
	email    string
	password string
	client   *http.Client
	logger   *zerolog.Logger
}

// NewClient creates a new session client for one account.
func NewClient(apiBaseURL, email, password string, client *http.Client, logger zerolog.Logger) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("HTTPClient is nil")
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", pet.ErrInvalidInput)
	}
	loginURL, err := url.JoinPath(apiBaseURL, loginURI)
	if err != nil {
		return nil, fmt.Errorf("error creating login URL: %w", err)
	}
	return &Client{
		loginURL: loginURL,
		email:    email,
		password: password,
		client:   client,
		logger:   &logger,
	}, nil
}

// Key returns the token cache key of the configured account.
func (c *Client) Key() string {
	return tokencache.AccountKey(c.email)
}

// GetToken logs in and returns a new session id for the account named by key.
func (c *Client) GetToken(ctx context.Context, key string) (string, error) {
	email, err := tokencache.AccountFromKey(key)
	if err != nil {
		return "", fmt.Errorf("error getting account: %w", err)
	}
	if email != c.email {
		return "", fmt.Errorf("%w: no credentials for account %s", pet.ErrUnauthorized, email)
	}

	form := url.Values{}
	form.Set("email", c.email)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error logging in: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("login API returned non-200 status code: %d; %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("error unmarshalling response body: %w", err)
	}
	if loginResp.Error != nil {
		return "", fmt.Errorf("%w: login rejected: %s", pet.ErrUnauthorized, loginResp.Error.Message)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: login API returned status code: %d", pet.ErrUnauthorized, resp.StatusCode)
	default:
		return "", fmt.Errorf("login API returned non-200 status code: %d; %s", resp.StatusCode, string(body))
	}
	if loginResp.SessionID == "" {
		return "", fmt.Errorf("%w: login response has no sessionId", pet.ErrMalformedPayload)
	}

	c.logger.Debug().Str("userId", loginResp.UserID).Msg("Logged in to TryFi")
	return loginResp.SessionID, nil
}
