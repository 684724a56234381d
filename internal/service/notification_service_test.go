package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/testutil"
)

func TestNotificationMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db))
	testutil.SeedUser(t, db, "user-1", "bob", false)

	n, err := svc.Notify(context.Background(), "user-1", entity.NotificationTypeSystem, "hello", nil)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	read, err := svc.MarkRead(context.Background(), n.ID, "user-1")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !read.Read {
		t.Error("Expected notification to be read")
	}

	// Repeat is idempotent
	if _, err := svc.MarkRead(context.Background(), n.ID, "user-1"); err != nil {
		t.Errorf("Repeated MarkRead failed: %v", err)
	}
}

func TestNotificationMarkReadOwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db))
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedUser(t, db, "user-2", "dave", false)

	n, err := svc.Notify(context.Background(), "user-1", entity.NotificationTypeSystem, "hello", nil)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if _, err := svc.MarkRead(context.Background(), n.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if _, err := svc.MarkRead(context.Background(), "no-such-id", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db))
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedUser(t, db, "user-2", "dave", false)

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(context.Background(), "user-1", entity.NotificationTypeSystem, fmt.Sprintf("msg %d", i), nil); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}
	if _, err := svc.Notify(context.Background(), "user-2", entity.NotificationTypeSystem, "other user", nil); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if err := svc.MarkAllRead(context.Background(), "user-1"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	_, _, unread, err := svc.ListByUser(context.Background(), "user-1", 1, 20)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("Expected 0 unread, got %d", unread)
	}

	// Another user's notifications are untouched
	_, _, otherUnread, err := svc.ListByUser(context.Background(), "user-2", 1, 20)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if otherUnread != 1 {
		t.Errorf("Expected 1 unread for user-2, got %d", otherUnread)
	}
}
