package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/service"
)

// AuthBody is the response body for register and login.
type AuthBody struct {
	User        *domain.User `json:"user" doc:"The authenticated user"`
	AccessToken string       `json:"access_token" doc:"PASETO access token"`
	ExpiresAt   time.Time    `json:"expires_at" doc:"Token expiry time"`
}

// RegisterInput is the request for user registration.
type RegisterInput struct {
	Body struct {
		Email       string `json:"email" format:"email" doc:"Email address, unique per account (case-insensitive)"`
		Password    string `json:"password" minLength:"8" maxLength:"1024" doc:"Password"`
		DisplayName string `json:"display_name" maxLength:"100" doc:"Name shown in the UI"`
	}
}

// RegisterOutput is the response for user registration.
type RegisterOutput struct {
	Body AuthBody
}

// LoginInput is the request for login.
type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Email address"`
		Password string `json:"password" doc:"Password"`
	}
}

// LoginOutput is the response for login.
type LoginOutput struct {
	Body AuthBody
}

// MeInput is the request for the current-user endpoint.
type MeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// MeOutput is the response for the current-user endpoint.
type MeOutput struct {
	Body struct {
		User *domain.User `json:"user" doc:"The authenticated user"`
	}
}

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register a new account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
			Email:       input.Body.Email,
			Password:    input.Body.Password,
			DisplayName: input.Body.DisplayName,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("registration failed", err)
		}

		return &RegisterOutput{Body: AuthBody{
			User:        resp.User,
			AccessToken: resp.AccessToken,
			ExpiresAt:   resp.ExpiresAt,
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
			Email:    input.Body.Email,
			Password: input.Body.Password,
		})
		if err != nil {
			return nil, huma.Error401Unauthorized("login failed", err)
		}

		return &LoginOutput{Body: AuthBody{
			User:        resp.User,
			AccessToken: resp.AccessToken,
			ExpiresAt:   resp.ExpiresAt,
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get the current user",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *MeInput) (*MeOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, huma.Error404NotFound("user not found", err)
		}

		resp := &MeOutput{}
		resp.Body.User = user
		return resp, nil
	})
}
