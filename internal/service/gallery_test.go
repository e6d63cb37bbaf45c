package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/service"
)

func TestGalleryUploadThenLikeThreeTimes(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "Dining room", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if item.ImageURL == "" || item.AssetID == "" {
		t.Fatalf("expected a stored asset reference, got %+v", item)
	}

	var likes int
	for i := 0; i < 3; i++ {
		if likes, err = g.Like(item.ID); err != nil {
			t.Fatalf("Like failed: %v", err)
		}
	}
	if likes != 3 {
		t.Errorf("expected 3 likes, got %d", likes)
	}
}

func TestGalleryRateAverages(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := g.Rate(item.ID, "u1", 4); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	avg, err := g.Rate(item.ID, "u2", 2)
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if avg != 3 {
		t.Errorf("expected average 3, got %v", avg)
	}
}

func TestGalleryRateValidation(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := g.Rate(item.ID, "", 3); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for empty user, got %v", err)
	}
	for _, value := range []int{0, 6, -1} {
		if _, err := g.Rate(item.ID, "u1", value); !errs.IsValidation(err) {
			t.Errorf("expected ValidationError for rating %d, got %v", value, err)
		}
	}
	if _, err := g.Rate("missing", "u1", 3); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestGallerySingleRatingPerUserOption(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop(), service.WithSingleRatingPerUser())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := g.Rate(item.ID, "u1", 5); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	avg, err := g.Rate(item.ID, "u1", 1)
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if avg != 1 {
		t.Errorf("expected the repeat rating to replace, got average %v", avg)
	}
}

func TestGalleryAddCommentValidation(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := g.AddComment(item.ID, "", "text"); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for empty name, got %v", err)
	}
	if _, err := g.AddComment(item.ID, "guest", "  "); !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for blank text, got %v", err)
	}

	comments, err := g.AddComment(item.ID, "guest", "wonderful evening")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if len(comments) != 1 || comments[0].Name != "guest" {
		t.Errorf("expected the appended comment back, got %+v", comments)
	}
	if comments[0].ID == "" {
		t.Error("expected a stable comment id")
	}
}

func TestGalleryDeleteItemRemovesAsset(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := g.DeleteItem(context.Background(), item.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if _, err := g.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	found := false
	for _, key := range e.store.deleted {
		if key == item.AssetID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected asset %q to be removed, deletes: %v", item.AssetID, e.store.deleted)
	}

	if err := g.DeleteItem(context.Background(), item.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for repeated delete, got %v", err)
	}
}

func TestGalleryDeleteItemSurvivesAssetFailure(t *testing.T) {
	e := setup(t)
	g := service.NewGallery(e.db, e.pipeline, e.hub, zap.NewNop())

	item, err := g.Upload(context.Background(), testImage(t), "", "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	// Simulate the remote asset vanishing out from under us; the record
	// delete must still go through.
	for key := range e.store.objects {
		if strings.HasPrefix(key, "gallery/") {
			delete(e.store.objects, key)
		}
	}
	if err := g.DeleteItem(context.Background(), item.ID); err != nil {
		t.Fatalf("DeleteItem should ignore asset failure, got %v", err)
	}
}
