package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProcurementTest(t *testing.T) (*gorm.DB, *ProcurementService, *InventoryService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	inventory := NewInventoryService(repository.NewInventoryRepository(db))
	svc := NewProcurementService(
		repository.NewProcurementRepository(db),
		repository.NewItemRepository(db),
		inventory,
		nil, "",
	)
	return db, svc, inventory
}

func validRecordRequest(itemID string) RecordProcurementRequest {
	return RecordProcurementRequest{
		ItemID:          itemID,
		ProcurementType: entity.ProcurementTypePurchase,
		Supplier:        "Acme Supplies",
		Quantity:        20,
		UnitPrice:       decimal.NewFromFloat(12.50),
		ProcurementDate: "2026-08-01",
		DocumentType:    entity.DocumentTypePurchaseOrder,
	}
}

func TestProcurementRecordReceivesStock(t *testing.T) {
	db, svc, inventory := setupProcurementTest(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedItem(t, db, "item-001", "Widget")

	p, err := svc.Record(context.Background(), validRecordRequest("item-001"), "admin-1")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Expected non-empty procurement id")
	}
	if !p.TotalPrice().Equal(decimal.NewFromFloat(250.00)) {
		t.Errorf("Expected total price 250.00, got %s", p.TotalPrice())
	}

	inv, err := inventory.GetByItem(context.Background(), "item-001")
	if err != nil {
		t.Fatalf("GetByItem failed: %v", err)
	}
	if inv.Quantity != 20 {
		t.Errorf("Expected quantity 20, got %d", inv.Quantity)
	}
	if inv.ProcurementID == nil || *inv.ProcurementID != p.ID {
		t.Errorf("Expected ledger to reference procurement %s, got %v", p.ID, inv.ProcurementID)
	}
}

func TestProcurementRecordAccumulatesAcrossReceipts(t *testing.T) {
	db, svc, inventory := setupProcurementTest(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedItem(t, db, "item-001", "Widget")

	if _, err := svc.Record(context.Background(), validRecordRequest("item-001"), "admin-1"); err != nil {
		t.Fatalf("First record failed: %v", err)
	}
	req := validRecordRequest("item-001")
	req.Quantity = 5
	req.ProcurementType = entity.ProcurementTypeDonation
	req.DocumentType = entity.DocumentTypeMOU
	if _, err := svc.Record(context.Background(), req, "admin-1"); err != nil {
		t.Fatalf("Second record failed: %v", err)
	}

	inv, err := inventory.GetByItem(context.Background(), "item-001")
	if err != nil {
		t.Fatalf("GetByItem failed: %v", err)
	}
	if inv.Quantity != 25 {
		t.Errorf("Expected quantity 25, got %d", inv.Quantity)
	}
}

func TestProcurementRecordValidation(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedItem(t, db, "item-001", "Widget")

	cases := []struct {
		name   string
		mutate func(*RecordProcurementRequest)
		want   error
	}{
		{"unknown type", func(r *RecordProcurementRequest) { r.ProcurementType = "theft" }, ErrValidation},
		{"unknown document type", func(r *RecordProcurementRequest) { r.DocumentType = "Napkin" }, ErrValidation},
		{"zero quantity", func(r *RecordProcurementRequest) { r.Quantity = 0 }, ErrValidation},
		{"negative price", func(r *RecordProcurementRequest) { r.UnitPrice = decimal.NewFromInt(-1) }, ErrValidation},
		{"bad date", func(r *RecordProcurementRequest) { r.ProcurementDate = "01/08/2026" }, ErrValidation},
		{"unknown item", func(r *RecordProcurementRequest) { r.ItemID = "no-such-item" }, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRecordRequest("item-001")
			tc.mutate(&req)
			if _, err := svc.Record(context.Background(), req, "admin-1"); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProcurementListFilters(t *testing.T) {
	db, svc, _ := setupProcurementTest(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedItem(t, db, "item-002", "Gadget")

	if _, err := svc.Record(context.Background(), validRecordRequest("item-001"), "admin-1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	req := validRecordRequest("item-002")
	req.ProcurementType = entity.ProcurementTypeTransfer
	req.DocumentType = entity.DocumentTypeInternalMemo
	if _, err := svc.Record(context.Background(), req, "admin-1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	byItem, total, err := svc.List(context.Background(), repository.ProcurementListParams{ItemID: "item-001", Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(byItem) != 1 {
		t.Errorf("Expected 1 procurement for item-001, got %d", total)
	}

	byType, total, err := svc.List(context.Background(), repository.ProcurementListParams{Type: entity.ProcurementTypeTransfer, Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(byType) != 1 {
		t.Errorf("Expected 1 transfer procurement, got %d", total)
	}
}
