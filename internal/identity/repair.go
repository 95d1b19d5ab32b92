package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oranjParker/Sintillio/internal/storage/postgres"
)

type RoleRepairStore interface {
	ListByEmailSuffix(ctx context.Context, suffix string) ([]postgres.AdminStatus, error)
	GrantRole(ctx context.Context, userID, role string) error
	SetProfileAdmin(ctx context.Context, userID string) error
}

type AdminVerification struct {
	postgres.AdminStatus
	DomainEligible bool `json:"domain_eligible"`
}

type RepairReport struct {
	Users []AdminVerification
	Fixed int
}

// RepairAdmins makes sure every user of domain carries both admin markers.
// Individual repair failures are logged and leave that marker false in the
// report.
func RepairAdmins(ctx context.Context, store RoleRepairStore, domain string, logger *slog.Logger) (*RepairReport, error) {
	users, err := store.ListByEmailSuffix(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", domain, err)
	}

	report := &RepairReport{Users: make([]AdminVerification, 0, len(users))}
	for _, u := range users {
		v := AdminVerification{AdminStatus: u, DomainEligible: true}

		if !v.HasAdminRole || !v.IsAdminFlag {
			report.Fixed++
		}

		if !v.HasAdminRole {
			if err := store.GrantRole(ctx, v.UserID, postgres.RoleAdmin); err != nil {
				logger.Error("fixing admin role failed", "email", v.Email, "error", err)
			} else {
				logger.Info("fixed admin role", "email", v.Email)
				v.HasAdminRole = true
			}
		}
		if !v.IsAdminFlag {
			if err := store.SetProfileAdmin(ctx, v.UserID); err != nil {
				logger.Error("fixing admin flag failed", "email", v.Email, "error", err)
			} else {
				logger.Info("fixed admin flag", "email", v.Email)
				v.IsAdminFlag = true
			}
		}

		report.Users = append(report.Users, v)
	}

	return report, nil
}
