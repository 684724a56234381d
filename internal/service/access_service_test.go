package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/testutil"
)

func TestIsAdminPredicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAccessService(repository.NewUserRepository(db))

	testutil.SeedUser(t, db, "staff-1", "alice", true)
	super := testutil.SeedUser(t, db, "super-1", "root", false)
	db.Model(super).Update("is_superuser", true)
	testutil.SeedAdminGroupMember(t, db, "group-1", "carol")
	testutil.SeedUser(t, db, "user-1", "bob", false)

	cases := []struct {
		userID string
		want   bool
	}{
		{"staff-1", true},
		{"super-1", true},
		{"group-1", true},
		{"user-1", false},
	}
	for _, tc := range cases {
		got, err := svc.IsAdmin(context.Background(), tc.userID)
		if err != nil {
			t.Fatalf("IsAdmin(%s) failed: %v", tc.userID, err)
		}
		if got != tc.want {
			t.Errorf("IsAdmin(%s) = %v, want %v", tc.userID, got, tc.want)
		}
	}

	if err := svc.RequireAdmin(context.Background(), "user-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := svc.RequireAdmin(context.Background(), "staff-1"); err != nil {
		t.Errorf("Expected nil for admin, got %v", err)
	}
	if _, err := svc.IsAdmin(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListAdminsDeduplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAccessService(repository.NewUserRepository(db))

	// Staff member who is also in the Admin group must appear once
	staff := testutil.SeedAdminGroupMember(t, db, "admin-1", "alice")
	db.Model(staff).Update("is_staff", true)
	testutil.SeedUser(t, db, "user-1", "bob", false)

	admins, err := svc.ListAdmins(context.Background())
	if err != nil {
		t.Fatalf("ListAdmins failed: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("Expected 1 admin, got %d", len(admins))
	}
	if admins[0].ID != "admin-1" {
		t.Errorf("Expected admin-1, got %s", admins[0].ID)
	}
}

func TestGetActorSetsAdminFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAccessService(repository.NewUserRepository(db))
	testutil.SeedUser(t, db, "staff-1", "alice", true)

	actor, err := svc.GetActor(context.Background(), "staff-1")
	if err != nil {
		t.Fatalf("GetActor failed: %v", err)
	}
	if !actor.IsAdminFlag {
		t.Error("Expected IsAdminFlag to be set for staff user")
	}
}
