package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kaset/kaset/internal/shared"
)

// RequestError represents a non-2xx response from the playlist backend.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
}

// Gateway performs authenticated JSON requests against the playlist backend.
//
// Every call injects the session's bearer token when one is held. A 401
// response expires the session (firing its callback) before the call fails
// with [shared.ErrUnauthorized]; any other non-2xx response fails with a
// [*RequestError] carrying the backend's error message when the body has one.
// Calls are never retried.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// NewGateway creates a gateway for the backend at baseURL.
func NewGateway(baseURL string, client *http.Client, session *Session) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{
		baseURL:    baseURL,
		httpClient: client,
		session:    session,
	}
}

// Call performs a request and returns the raw JSON payload.
//
// A 204 No Content response (or an empty body) yields a nil payload and a
// nil error.
func (g *Gateway) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, err := g.session.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.session.Expire()
		return nil, fmt.Errorf("%s %s: %w", method, path, shared.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Message: errorMessage(payload, resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return nil, nil
	}

	return json.RawMessage(payload), nil
}

// errorMessage extracts a human-readable message from a JSON error body,
// falling back to a status-derived message.
func errorMessage(payload []byte, status int) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
