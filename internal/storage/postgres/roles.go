package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const RoleAdmin = "admin"

type RoleStore struct {
	db DBExecutor
}

func NewRoleStore(db DBExecutor) *RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, role,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return ok, nil
}

func (s *RoleStore) IsProfileAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT is_admin FROM profiles WHERE user_id = $1), FALSE)`,
		userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("profile lookup: %w", err)
	}
	return ok, nil
}

// AdminStatus is one user's privilege markers as seen by the repair tool.
type AdminStatus struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	HasAdminRole bool   `json:"has_admin_role"`
	IsAdminFlag  bool   `json:"is_admin_flag"`
}

// ListByEmailSuffix returns every user whose email ends with suffix along
// with their current admin markers.
func (s *RoleStore) ListByEmailSuffix(ctx context.Context, suffix string) ([]AdminStatus, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"u.id::text",
			"COALESCE(u.email, '')",
			"EXISTS (SELECT 1 FROM user_roles r WHERE r.user_id = u.id AND r.role = 'admin')",
			"COALESCE(p.is_admin, FALSE)",
		).
		From("auth.users u").
		LeftJoin("profiles p ON p.user_id = u.id").
		Where(sq.ILike{"u.email": "%" + suffix}).
		OrderBy("u.email").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user listing: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []AdminStatus
	for rows.Next() {
		var st AdminStatus
		if err := rows.Scan(&st.UserID, &st.Email, &st.HasAdminRole, &st.IsAdminFlag); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *RoleStore) GrantRole(ctx context.Context, userID, role string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role, assigned_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, role)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

func (s *RoleStore) SetProfileAdmin(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, is_admin, updated_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (user_id) DO UPDATE SET is_admin = TRUE, updated_at = NOW()
	`, userID)
	if err != nil {
		return fmt.Errorf("set profile admin: %w", err)
	}
	return nil
}
