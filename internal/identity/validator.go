package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
)

// TokenValidator resolves a bearer token to the caller it was issued to.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (core.Caller, error)
}

func NewValidator(cfg config.IdentityConfig, client *http.Client) (TokenValidator, error) {
	switch cfg.Mode {
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("%w: identity.jwt_secret is required in jwt mode", core.ErrConfiguration)
		}
		return NewJWTValidator(cfg.JWTSecret), nil
	case "remote", "":
		if cfg.URL == "" {
			return nil, fmt.Errorf("%w: identity.url is required in remote mode", core.ErrConfiguration)
		}
		if client == nil {
			client = &http.Client{Timeout: cfg.Timeout}
		}
		return NewRemoteValidator(cfg.URL, cfg.ServiceKey, client), nil
	default:
		return nil, fmt.Errorf("%w: unknown identity mode %q", core.ErrConfiguration, cfg.Mode)
	}
}

// RemoteValidator asks the identity provider's user endpoint who owns the
// token.
type RemoteValidator struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewRemoteValidator(baseURL, serviceKey string, client *http.Client) *RemoteValidator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteValidator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
	}
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type providerError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (v *RemoteValidator) Validate(ctx context.Context, token string) (core.Caller, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return core.Caller{}, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("apikey", v.serviceKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode != http.StatusOK {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", providerDetail(resp.Status, body))
	}

	var user providerUser
	if err := json.Unmarshal(body, &user); err != nil {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", "malformed identity response")
	}
	if user.ID == "" {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", "No user found")
	}

	return core.Caller{ID: user.ID, Email: user.Email}, nil
}

func providerDetail(status string, body []byte) string {
	var pe providerError
	if json.Unmarshal(body, &pe) == nil {
		for _, s := range []string{pe.Msg, pe.Message, pe.ErrorDescription} {
			if s != "" {
				return s
			}
		}
	}
	return status
}

// JWTValidator verifies HS256 tokens locally with the provider's signing
// secret.
type JWTValidator struct {
	secret []byte
}

func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

func (v *JWTValidator) Validate(_ context.Context, tokenString string) (core.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		detail := "invalid token"
		if err != nil {
			detail = err.Error()
		}
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", detail)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", "unexpected claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return core.Caller{}, core.Describe(core.ErrUnauthenticated, "Unauthorized", "No user found")
	}
	email, _ := claims["email"].(string)

	return core.Caller{ID: sub, Email: email}, nil
}
