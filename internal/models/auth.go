package models

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse mirrors POST /auth/login. The token is opaque to the client.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
