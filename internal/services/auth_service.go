package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/staffdesk/console/internal/clients"
	"github.com/staffdesk/console/internal/models"
	"github.com/staffdesk/console/internal/session"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

type authService struct {
	client   clients.BackendClient
	sessions *session.Manager
	validate *validator.Validate
}

func NewAuthService(client clients.BackendClient, sessions *session.Manager) AuthService {
	return &authService{
		client:   client,
		sessions: sessions,
		validate: validator.New(),
	}
}

// Login exchanges credentials for a token and establishes the session. A
// rejected login leaves the prior session state untouched.
func (s *authService) Login(ctx context.Context, username, password string) error {
	req := models.LoginRequest{Username: username, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("username and password are required")
	}

	response, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if response.AccessToken == "" {
		return fmt.Errorf("backend returned an empty token")
	}

	return s.sessions.Establish(ctx, response.AccessToken)
}

// Logout is purely local; the backend holds no session state to revoke.
// Safe to call when already logged out.
func (s *authService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}
