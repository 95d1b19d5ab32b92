package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestRoleStore_Lookups(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	store := NewRoleStore(mockDB)

	t.Run("Has Role", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT EXISTS").
			WithArgs("user-1", RoleAdmin).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := store.HasRole(context.Background(), "user-1", RoleAdmin)
		if err != nil || !ok {
			t.Errorf("expected admin role, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Profile Flag Store Error", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT COALESCE").
			WithArgs("user-1").
			WillReturnError(errors.New("connection refused"))

		_, err := store.IsProfileAdmin(context.Background(), "user-1")
		if err == nil {
			t.Error("store errors must surface, not read as false")
		}
	})

	if err := mockDB.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet DB expectations: %v", err)
	}
}

func TestRoleStore_ListByEmailSuffix(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT (.+) FROM auth.users u LEFT JOIN profiles p ON p.user_id = u.id WHERE u.email ILIKE").
		WithArgs("%@blindvibe.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "has_role", "is_admin"}).
			AddRow("u-1", "ann@blindvibe.com", true, false).
			AddRow("u-2", "bo@blindvibe.com", false, false))

	users, err := NewRoleStore(mockDB).ListByEmailSuffix(context.Background(), "@blindvibe.com")
	if err != nil {
		t.Fatalf("ListByEmailSuffix failed: %v", err)
	}
	if len(users) != 2 || !users[0].HasAdminRole || users[1].HasAdminRole {
		t.Errorf("unexpected users %+v", users)
	}
}

func TestRoleStore_Repairs(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	store := NewRoleStore(mockDB)

	mockDB.ExpectExec("INSERT INTO user_roles").
		WithArgs("u-2", RoleAdmin).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockDB.ExpectExec("INSERT INTO profiles").
		WithArgs("u-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.GrantRole(context.Background(), "u-2", RoleAdmin); err != nil {
		t.Errorf("GrantRole failed: %v", err)
	}
	if err := store.SetProfileAdmin(context.Background(), "u-2"); err != nil {
		t.Errorf("SetProfileAdmin failed: %v", err)
	}

	if err := mockDB.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet DB expectations: %v", err)
	}
}
