// GoTrue identity provider client
//
// API shapes based on https://github.com/supabase/auth
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/mixify/internal/shared"
)

// IdentityUser represents an account held by the identity provider.
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentitySession represents an authenticated session with its tokens.
type IdentitySession struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         IdentityUser `json:"user"`
}

type identityAPIError struct {
	Message   string `json:"msg"`
	ErrorDesc string `json:"error_description"`
}

// IdentityService is an HTTP client for a GoTrue-compatible auth server.
// Every request carries the project's anon key; authenticated requests
// additionally carry the user's bearer token.
type IdentityService struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewIdentityService creates a client for the auth server at baseURL.
func NewIdentityService(baseURL, anonKey string) (*IdentityService, error) {
	if baseURL == "" || anonKey == "" {
		return nil, fmt.Errorf("%w: identity url and anon key required", shared.ErrMissingCredentials)
	}

	return &IdentityService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: http.DefaultClient,
	}, nil
}

// doRequest performs a request against the auth API. An empty bearer falls
// back to the anon key. Non-2xx responses decode into [APIError].
func (s *IdentityService) doRequest(ctx context.Context, method, endpoint, bearer string, body any, result any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	apiURL := s.baseURL + endpoint

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if bearer == "" {
		bearer = s.anonKey
	}

	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var decoded identityAPIError
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil {
			apiErr.Message = decoded.Message
			if apiErr.Message == "" {
				apiErr.Message = decoded.ErrorDesc
			}
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, apiErr)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SignInWithPassword exchanges an email and password for a session.
func (s *IdentityService) SignInWithPassword(ctx context.Context, email, password string) (*IdentitySession, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", shared.ErrInvalidInput)
	}

	body := map[string]string{"email": email, "password": password}

	var session IdentitySession
	if err := s.doRequest(ctx, "POST", "/auth/v1/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new account. Depending on server settings the response
// may carry a session immediately or require email confirmation first.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*IdentitySession, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", shared.ErrInvalidInput)
	}

	body := map[string]string{"email": email, "password": password}

	var session IdentitySession
	if err := s.doRequest(ctx, "POST", "/auth/v1/signup", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (s *IdentityService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return shared.ErrSessionMissing
	}

	return s.doRequest(ctx, "POST", "/auth/v1/logout", accessToken, nil, nil)
}

// GetUser retrieves the account behind the given access token.
func (s *IdentityService) GetUser(ctx context.Context, accessToken string) (*IdentityUser, error) {
	if accessToken == "" {
		return nil, shared.ErrSessionMissing
	}

	var user IdentityUser
	if err := s.doRequest(ctx, "GET", "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPasswordForEmail asks the server to send a password recovery email.
func (s *IdentityService) ResetPasswordForEmail(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email required", shared.ErrInvalidInput)
	}

	return s.doRequest(ctx, "POST", "/auth/v1/recover", "", map[string]string{"email": email}, nil)
}

// UpdateUser changes the password on the account behind the access token.
func (s *IdentityService) UpdateUser(ctx context.Context, accessToken, newPassword string) (*IdentityUser, error) {
	if accessToken == "" {
		return nil, shared.ErrSessionMissing
	}
	if newPassword == "" {
		return nil, fmt.Errorf("%w: new password required", shared.ErrInvalidInput)
	}

	body := map[string]string{"password": newPassword}

	var user IdentityUser
	if err := s.doRequest(ctx, "PUT", "/auth/v1/user", accessToken, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
