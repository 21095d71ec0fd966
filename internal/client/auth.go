package client

import (
	"context"
	"net/http"
)

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login opens an admin session. The cookie stays in the HTTP client's jar;
// the store only mirrors whether it is valid.
func (s *Store) Login(ctx context.Context, username, password string) error {
	var res authResponse
	if err := s.do(ctx, http.MethodPost, "/api/auth", authRequest{Action: "login", Username: username, Password: password}, &res); err != nil {
		return err
	}
	s.setAuthenticated(res.Authenticated)
	if !res.Authenticated {
		return ErrUnauthorized
	}
	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	err := s.do(ctx, http.MethodPost, "/api/auth", authRequest{Action: "logout"}, nil)
	s.setAuthenticated(false)
	return err
}

func (s *Store) CheckAuth(ctx context.Context) (bool, error) {
	var res authResponse
	if err := s.do(ctx, http.MethodPost, "/api/auth", authRequest{Action: "check"}, &res); err != nil {
		return false, err
	}
	s.setAuthenticated(res.Authenticated)
	return res.Authenticated, nil
}

func (s *Store) setAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	s.mu.Unlock()
}
