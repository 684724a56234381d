package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/testutil"
	"gorm.io/gorm"
)

func setupInventoryTest(t *testing.T) (*gorm.DB, *InventoryService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewInventoryService(repository.NewInventoryRepository(db))
	return db, svc
}

func TestApplyReceiptCreatesLedgerRow(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")

	inv, err := svc.ApplyReceipt(context.Background(), nil, "item-001", 10, "proc-001")
	if err != nil {
		t.Fatalf("ApplyReceipt failed: %v", err)
	}
	if inv.Quantity != 10 {
		t.Errorf("Expected quantity 10, got %d", inv.Quantity)
	}
	if inv.ProcurementID == nil || *inv.ProcurementID != "proc-001" {
		t.Errorf("Expected procurement_id 'proc-001', got %v", inv.ProcurementID)
	}
}

func TestApplyReceiptAccumulates(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")

	if _, err := svc.ApplyReceipt(context.Background(), nil, "item-001", 10, "proc-001"); err != nil {
		t.Fatalf("First receipt failed: %v", err)
	}
	inv, err := svc.ApplyReceipt(context.Background(), nil, "item-001", 5, "proc-002")
	if err != nil {
		t.Fatalf("Second receipt failed: %v", err)
	}
	if inv.Quantity != 15 {
		t.Errorf("Expected quantity 15, got %d", inv.Quantity)
	}
	if inv.ProcurementID == nil || *inv.ProcurementID != "proc-002" {
		t.Errorf("Expected procurement_id to track latest receipt, got %v", inv.ProcurementID)
	}

	// Only one ledger row per item
	var count int64
	db.Table("inventories").Where("item_id = ?", "item-001").Count(&count)
	if count != 1 {
		t.Errorf("Expected a single ledger row, got %d", count)
	}
}

func TestApplyReceiptConcurrent(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ApplyReceipt(context.Background(), nil, "item-001", 1, "proc-001"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent receipt failed: %v", err)
	}

	inv, err := svc.GetByItem(context.Background(), "item-001")
	if err != nil {
		t.Fatalf("GetByItem failed: %v", err)
	}
	if inv.Quantity != workers {
		t.Errorf("Expected quantity %d after concurrent receipts, got %d", workers, inv.Quantity)
	}
}

func TestApplyReceiptRejectsNonPositiveQuantity(t *testing.T) {
	_, svc := setupInventoryTest(t)

	if _, err := svc.ApplyReceipt(context.Background(), nil, "item-001", 0, "proc-001"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero quantity, got %v", err)
	}
	if _, err := svc.ApplyReceipt(context.Background(), nil, "item-001", -3, "proc-001"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for negative quantity, got %v", err)
	}
}

func TestApplyConsumption(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedInventory(t, db, "item-001", 10)

	inv, err := svc.ApplyConsumption(context.Background(), nil, "item-001", 4)
	if err != nil {
		t.Fatalf("ApplyConsumption failed: %v", err)
	}
	if inv.Quantity != 6 {
		t.Errorf("Expected quantity 6, got %d", inv.Quantity)
	}

	// Draining to exactly zero is allowed
	inv, err = svc.ApplyConsumption(context.Background(), nil, "item-001", 6)
	if err != nil {
		t.Fatalf("Consumption to zero failed: %v", err)
	}
	if inv.Quantity != 0 {
		t.Errorf("Expected quantity 0, got %d", inv.Quantity)
	}
}

func TestApplyConsumptionInsufficientStock(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedInventory(t, db, "item-001", 5)

	_, err := svc.ApplyConsumption(context.Background(), nil, "item-001", 6)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	// Failed consumption must not touch the ledger
	inv, err := svc.GetByItem(context.Background(), "item-001")
	if err != nil {
		t.Fatalf("GetByItem failed: %v", err)
	}
	if inv.Quantity != 5 {
		t.Errorf("Expected quantity unchanged at 5, got %d", inv.Quantity)
	}
}

func TestApplyConsumptionConcurrent(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedInventory(t, db, "item-001", 10)

	// 5 workers each taking 3 against a stock of 10: only 3 can succeed
	const workers = 5
	var wg sync.WaitGroup
	var succeeded int32
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyConsumption(context.Background(), nil, "item-001", 3)
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
				return
			}
			if !errors.Is(err, ErrInsufficientStock) {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent consumption failed unexpectedly: %v", err)
	}

	if succeeded != 3 {
		t.Errorf("Expected exactly 3 successful consumptions, got %d", succeeded)
	}
	inv, err := svc.GetByItem(context.Background(), "item-001")
	if err != nil {
		t.Fatalf("GetByItem failed: %v", err)
	}
	if inv.Quantity != 10-int(succeeded)*3 {
		t.Errorf("Expected quantity %d, got %d", 10-int(succeeded)*3, inv.Quantity)
	}
	if inv.Quantity < 0 {
		t.Errorf("Quantity went negative: %d", inv.Quantity)
	}
}

func TestApplyConsumptionUntrackedItem(t *testing.T) {
	db, svc := setupInventoryTest(t)
	testutil.SeedItem(t, db, "item-untracked", "Ghost")

	_, err := svc.ApplyConsumption(context.Background(), nil, "item-untracked", 1)
	if !errors.Is(err, ErrItemNotTracked) {
		t.Errorf("Expected ErrItemNotTracked, got %v", err)
	}
}

func TestGetByItemUntracked(t *testing.T) {
	_, svc := setupInventoryTest(t)

	_, err := svc.GetByItem(context.Background(), "missing-item")
	if !errors.Is(err, ErrItemNotTracked) {
		t.Errorf("Expected ErrItemNotTracked, got %v", err)
	}
}
