package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/service"
)

func TestCreateCategory(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	cat, err := m.CreateCategory("  Drinks  ")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if cat.Name != "Drinks" {
		t.Errorf("expected trimmed name, got %q", cat.Name)
	}

	if _, err := m.CreateCategory("Drinks"); !errs.IsConflict(err) {
		t.Errorf("expected Conflict for duplicate, got %v", err)
	}
	if _, err := m.CreateCategory("   "); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for blank name, got %v", err)
	}
}

func TestPagedDefaultsAndTotals(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	for _, name := range []string{"Starters", "Mains", "Desserts"} {
		if _, err := m.CreateCategory(name); err != nil {
			t.Fatalf("CreateCategory(%q) failed: %v", name, err)
		}
	}

	page, err := m.Paged(2, 1)
	if err != nil {
		t.Fatalf("Paged failed: %v", err)
	}
	if len(page.Categories) != 1 {
		t.Fatalf("expected exactly 1 category, got %d", len(page.Categories))
	}
	if page.Categories[0].Name != "Mains" {
		t.Errorf("expected the second category by creation order, got %q", page.Categories[0].Name)
	}
	if page.Total != 3 || page.TotalPages != 3 || page.CurrentPage != 2 {
		t.Errorf("unexpected totals: %+v", page)
	}

	// Out-of-range page and limit fall back to the defaults.
	page, err = m.Paged(0, -5)
	if err != nil {
		t.Fatalf("Paged failed: %v", err)
	}
	if page.CurrentPage != 1 || len(page.Categories) != 3 {
		t.Errorf("expected default paging, got %+v", page)
	}
}

func TestAddItemValidation(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	if _, err := m.CreateCategory("Mains"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	cases := []struct {
		name   string
		fields service.ItemFields
		image  assets.Upload
	}{
		{"missing name", service.ItemFields{Description: "d", Price: floatPtr(9)}, testImage(t)},
		{"missing description", service.ItemFields{Name: "Oden", Price: floatPtr(9)}, testImage(t)},
		{"missing price", service.ItemFields{Name: "Oden", Description: "d"}, testImage(t)},
		{"missing image", service.ItemFields{Name: "Oden", Description: "d", Price: floatPtr(9)}, assets.Upload{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.AddItem(context.Background(), "Mains", tc.fields, tc.image); !errs.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestAddItemMissingCategoryCleansUpUpload(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	fields := service.ItemFields{Name: "Oden", Description: "House specialty", Price: floatPtr(12.5)}
	_, err := m.AddItem(context.Background(), "Nonexistent", fields, testImage(t))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The image was uploaded before the lookup; the failure path must have
	// removed it again so no orphan is left in object storage.
	for key := range e.store.objects {
		if strings.HasPrefix(key, "menu/") {
			t.Errorf("orphan asset left behind: %q", key)
		}
	}
}

func TestAddItemAppendsInOrder(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	if _, err := m.CreateCategory("Mains"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	for _, name := range []string{"Oden", "Ramen"} {
		fields := service.ItemFields{Name: name, Description: "dish", Price: floatPtr(10)}
		if _, err := m.AddItem(context.Background(), "Mains", fields, testImage(t)); err != nil {
			t.Fatalf("AddItem(%q) failed: %v", name, err)
		}
	}

	display, err := m.ForDisplay()
	if err != nil {
		t.Fatalf("ForDisplay failed: %v", err)
	}
	items := display["Mains"]
	if len(items) != 2 || items[0].Name != "Oden" || items[1].Name != "Ramen" {
		t.Errorf("expected insertion order preserved, got %+v", items)
	}
}

func TestUpdateItemPatchesOnlyProvidedFields(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	cat, err := m.CreateCategory("Mains")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	fields := service.ItemFields{Name: "Oden", Description: "House specialty", Price: floatPtr(12.5)}
	withItem, err := m.AddItem(context.Background(), "Mains", fields, testImage(t))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	itemID := withItem.Items[0].ID

	patch := models.MenuItemPatch{Price: floatPtr(14)}
	updated, err := m.UpdateItem(context.Background(), cat.ID, itemID, patch, nil)
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Price != 14 {
		t.Errorf("expected patched price 14, got %v", updated.Price)
	}
	if updated.Name != "Oden" || updated.Description != "House specialty" {
		t.Errorf("expected untouched fields preserved, got %+v", updated)
	}

	updated, err = m.UpdateItem(context.Background(), cat.ID, itemID, models.MenuItemPatch{Name: strPtr("Premium Oden")}, nil)
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Name != "Premium Oden" || updated.Price != 14 {
		t.Errorf("expected name patched and earlier price kept, got %+v", updated)
	}
}

func TestUpdateItemReplacesImageAndRemovesSuperseded(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	cat, err := m.CreateCategory("Mains")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	fields := service.ItemFields{Name: "Oden", Description: "House specialty", Price: floatPtr(12.5)}
	withItem, err := m.AddItem(context.Background(), "Mains", fields, testImage(t))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	original := withItem.Items[0]

	image := testImage(t)
	updated, err := m.UpdateItem(context.Background(), cat.ID, original.ID, models.MenuItemPatch{}, &image)
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.AssetID == original.AssetID {
		t.Error("expected a fresh asset reference")
	}

	superseded := false
	for _, key := range e.store.deleted {
		if key == original.AssetID {
			superseded = true
		}
	}
	if !superseded {
		t.Errorf("expected superseded asset %q removed, deletes: %v", original.AssetID, e.store.deleted)
	}
}

func TestDeleteItemCleansUpAsset(t *testing.T) {
	e := setup(t)
	m := service.NewMenu(e.db, e.pipeline, zap.NewNop())

	cat, err := m.CreateCategory("Mains")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	fields := service.ItemFields{Name: "Oden", Description: "House specialty", Price: floatPtr(12.5)}
	withItem, err := m.AddItem(context.Background(), "Mains", fields, testImage(t))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	item := withItem.Items[0]

	if err := m.DeleteItem(context.Background(), cat.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if err := m.DeleteItem(context.Background(), cat.ID, item.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for repeated delete, got %v", err)
	}

	cleaned := false
	for _, key := range e.store.deleted {
		if key == item.AssetID {
			cleaned = true
		}
	}
	if !cleaned {
		t.Errorf("expected deleted item's asset %q cleaned up", item.AssetID)
	}
}
