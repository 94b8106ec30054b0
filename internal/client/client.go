// Package client is a typed HTTP client for the user directory API.
package client

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

	"github.com/aamishhussain23/finacplus-assignment/internal/dto"
)

// DefaultBaseURL is the user route group of a locally running API.
const DefaultBaseURL = "http://127.0.0.1:5000/api/v1/user"

// ErrUnavailable is returned when no HTTP response was received.
var ErrUnavailable = errors.New("server unreachable, check that the API is running")

// APIError is a non-2xx response. Message is the server's own text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL, e.g. DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// AddUser registers a new user and returns the server's confirmation.
func (c *Client) AddUser(ctx context.Context, req dto.UserRequest) (string, error) {
	var out dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/add-user", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserSummary, error) {
	var out dto.UsersEnvelope
	if err := c.do(ctx, http.MethodGet, "/get-all-user", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (dto.UserResponse, error) {
	var out dto.UserEnvelope
	if err := c.do(ctx, http.MethodGet, "/get-user/"+url.PathEscape(id), nil, &out); err != nil {
		return dto.UserResponse{}, err
	}
	return out.User, nil
}

// EditUser sends the changed fields with the current password in req.
func (c *Client) EditUser(ctx context.Context, id string, req dto.UserRequest) (dto.UserResponse, error) {
	var out dto.UserEnvelope
	if err := c.do(ctx, http.MethodPut, "/edit-user/"+url.PathEscape(id), req, &out); err != nil {
		return dto.UserResponse{}, err
	}
	return out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id, password string) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, http.MethodDelete, "/delete-user/"+url.PathEscape(id), dto.DeleteUserRequest{Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Genders(ctx context.Context) ([]string, error) {
	var out dto.GendersEnvelope
	if err := c.do(ctx, http.MethodGet, "/get-gender", nil, &out); err != nil {
		return nil, err
	}
	return out.Genders, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var m dto.MessageResponse
		if json.Unmarshal(raw, &m) != nil || m.Message == "" {
			m.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Message returns the text to show a user for err: the server message for
// API errors, a fixed notice when the server could not be reached.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrUnavailable):
		return ErrUnavailable.Error()
	default:
		return err.Error()
	}
}
