package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
)

// Signal is one way a caller can qualify as an administrator.
type Signal string

const (
	SignalDomain  Signal = "email_domain"
	SignalRole    Signal = "role_assignment"
	SignalProfile Signal = "profile_flag"
)

// Policy lists the signals an endpoint accepts, in evaluation order.
type Policy []Signal

var (
	PolicySearch = Policy{SignalDomain, SignalProfile, SignalRole}
	PolicyAdmin  = Policy{SignalDomain, SignalRole}
)

const forbiddenDetail = "User is not an admin by email domain, role assignment or profile flag"

type RoleLookup interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	IsProfileAdmin(ctx context.Context, userID string) (bool, error)
}

// Grant records which signal admitted a caller.
type Grant struct {
	Caller core.Caller
	Reason Signal
}

type Gate struct {
	validator     TokenValidator
	roles         RoleLookup
	trustedDomain string
	logger        *slog.Logger
}

func NewGate(validator TokenValidator, roles RoleLookup, trustedDomain string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		validator:     validator,
		roles:         roles,
		trustedDomain: config.EmailDomain(trustedDomain),
		logger:        logger.With("component", "gate"),
	}
}

// Authenticate validates the Authorization header value. A missing header is
// rejected before any call to the identity provider.
func (g *Gate) Authenticate(ctx context.Context, authHeader string) (core.Caller, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return core.Caller{}, core.Describe(core.ErrMissingToken, "Authorization header is required", "")
	}
	return g.validator.Validate(ctx, token)
}

// Authorize evaluates policy in order and admits the caller on the first
// signal that holds. Lookup failures are reported as such, never as a denial.
func (g *Gate) Authorize(ctx context.Context, caller core.Caller, policy Policy) (Grant, error) {
	for _, sig := range policy {
		ok, err := g.check(ctx, caller, sig)
		if err != nil {
			g.logger.Error("privilege lookup failed", "user_id", caller.ID, "signal", sig, "error", err)
			return Grant{}, core.Describe(core.ErrAuthorizationCheckFailed, "Role verification failed", err.Error())
		}
		if ok {
			g.logger.Info("privilege granted", "user_id", caller.ID, "reason", sig)
			return Grant{Caller: caller, Reason: sig}, nil
		}
	}

	g.logger.Warn("privilege denied", "user_id", caller.ID)
	return Grant{}, core.Describe(core.ErrForbidden, "Admin privileges required", forbiddenDetail)
}

// Admit authenticates and then authorizes against policy.
func (g *Gate) Admit(ctx context.Context, authHeader string, policy Policy) (Grant, error) {
	caller, err := g.Authenticate(ctx, authHeader)
	if err != nil {
		return Grant{}, err
	}
	return g.Authorize(ctx, caller, policy)
}

func (g *Gate) check(ctx context.Context, caller core.Caller, sig Signal) (bool, error) {
	switch sig {
	case SignalDomain:
		return g.InTrustedDomain(caller.Email), nil
	case SignalRole:
		return g.roles.HasRole(ctx, caller.ID, postgres.RoleAdmin)
	case SignalProfile:
		return g.roles.IsProfileAdmin(ctx, caller.ID)
	}
	return false, nil
}

func (g *Gate) InTrustedDomain(email string) bool {
	if g.trustedDomain == "" || email == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), g.trustedDomain)
}

func (g *Gate) TrustedDomain() string {
	return g.trustedDomain
}
