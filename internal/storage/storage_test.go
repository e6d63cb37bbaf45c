package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

// setupTestDB opens a throwaway sqlite database under a temp dir so every
// test starts from an empty schema.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertGalleryItem(t *testing.T, db *storage.DB) *models.GalleryItem {
	t.Helper()
	now := time.Now().UTC()
	item := &models.GalleryItem{
		ID:        uuid.NewString(),
		ImageURL:  "http://localhost:5000/media/gallery/a.jpg",
		AssetID:   "gallery/a.jpg",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.SaveGalleryItem(item); err != nil {
		t.Fatalf("SaveGalleryItem failed: %v", err)
	}
	return item
}

func insertCategory(t *testing.T, db *storage.DB, name string) *models.MenuCategory {
	t.Helper()
	cat := &models.MenuCategory{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.SaveCategory(cat); err != nil {
		t.Fatalf("SaveCategory(%q) failed: %v", name, err)
	}
	return cat
}

func insertMenuItem(t *testing.T, db *storage.DB, categoryID, name string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		ID:          uuid.NewString(),
		Name:        name,
		Description: "test item",
		Price:       9.5,
		ImageURL:    "http://localhost:5000/media/menu/x.jpg",
		AssetID:     "menu/x.jpg",
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.SaveMenuItem(categoryID, item); err != nil {
		t.Fatalf("SaveMenuItem(%q) failed: %v", name, err)
	}
	return item
}

func insertReservation(t *testing.T, db *storage.DB, ref string) *models.Reservation {
	t.Helper()
	now := time.Now().UTC()
	r := &models.Reservation{
		ID:              uuid.NewString(),
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Phone:           "07000000000",
		GuestCount:      2,
		Date:            "2026-10-01",
		Time:            "19:30",
		Status:          models.StatusPending,
		ReferenceNumber: ref,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.SaveReservation(r); err != nil {
		t.Fatalf("SaveReservation failed: %v", err)
	}
	return r
}
