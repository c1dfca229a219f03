package api

import (
	"context"
	"fmt"

	"teebay-client/internal/domain"
)

const loginMutation = `
  mutation ($email: String!, $password: String!) {
    login(jwtRequest: { email: $email, password: $password }) {
      jwtToken
      message
    }
  }
`

// Login authenticates against the auth collaborator and returns the JWT.
// Storing it (typically in a Session) is the caller's concern.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var data struct {
		Login struct {
			JwtToken string `json:"jwtToken"`
			Message  string `json:"message"`
		} `json:"login"`
	}
	if err := c.do(ctx, loginMutation, map[string]any{
		"email":    email,
		"password": password,
	}, &data); err != nil {
		return "", err
	}
	if data.Login.JwtToken == "" {
		return "", &domain.RemoteError{StatusCode: "401", StatusMessage: data.Login.Message}
	}
	return data.Login.JwtToken, nil
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

const registerMutation = `
  mutation ($input: RegisterInput!) {
    register(userInfo: $input) {
      id
      email
      firstName
    }
  }
`

// Register creates a new account. The caller still logs in afterwards.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	if err := c.validate.Struct(input); err != nil {
		return fmt.Errorf("api: invalid registration input: %w", err)
	}
	return c.do(ctx, registerMutation, map[string]any{"input": input}, nil)
}
