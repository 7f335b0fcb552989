package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RemoteProvider talks to a taskdeck account service over JSON/HTTP. Error
// bodies of the form {"error": "..."} surface to the user verbatim; anything
// else (transport faults, opaque bodies) becomes a generic failure.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
}

func NewRemoteProvider(baseURL string, timeout time.Duration) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	return p.post(ctx, "/v1/auth/sign-in", email, password)
}

func (p *RemoteProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	return p.post(ctx, "/v1/auth/sign-up", email, password)
}

func (p *RemoteProvider) post(ctx context.Context, path, email, password string) (Session, error) {
	body, err := json.Marshal(credentialsRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var s Session
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return Session{}, fmt.Errorf("decode session: %w", err)
		}
		return s, nil
	}

	var fail errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&fail); err == nil && fail.Error != "" {
		return Session{}, NewError(fail.Error)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return Session{}, ErrTooManyAttempts
	}
	return Session{}, fmt.Errorf("auth service returned %s", resp.Status)
}
