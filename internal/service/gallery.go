package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/events"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

const galleryFolder = "gallery"

// Gallery owns gallery items and their engagement data.
type Gallery struct {
	db       *storage.DB
	pipeline *assets.Pipeline
	hub      *events.Hub
	log      *zap.Logger

	// singleRatingPerUser switches Rate from append to replace semantics.
	// The source behavior (multiple ratings per user) is the default.
	singleRatingPerUser bool
}

// GalleryOption tweaks gallery behavior at construction.
type GalleryOption func(*Gallery)

// WithSingleRatingPerUser makes a repeat rating by the same user replace
// that user's previous rating instead of appending another one.
func WithSingleRatingPerUser() GalleryOption {
	return func(g *Gallery) { g.singleRatingPerUser = true }
}

func NewGallery(db *storage.DB, pipeline *assets.Pipeline, hub *events.Hub, log *zap.Logger, opts ...GalleryOption) *Gallery {
	g := &Gallery{db: db, pipeline: pipeline, hub: hub, log: log}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// List returns every gallery item with its engagement data.
func (g *Gallery) List() ([]*models.GalleryItem, error) {
	return g.db.GetAllGalleryItems()
}

// Upload stores the image through the pipeline and persists the new item.
// If the insert fails after a successful upload, the just-stored asset is
// removed so no orphan is left behind.
func (g *Gallery) Upload(ctx context.Context, up assets.Upload, title, description string) (*models.GalleryItem, error) {
	asset, err := g.pipeline.Store(ctx, up, galleryFolder)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &models.GalleryItem{
		ID:          uuid.NewString(),
		ImageURL:    asset.URL,
		AssetID:     asset.ID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Comments:    []models.Comment{},
		Ratings:     []models.Rating{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := g.db.SaveGalleryItem(item); err != nil {
		if rmErr := g.pipeline.Remove(ctx, asset.ID); rmErr != nil {
			g.log.Warn("failed to remove asset after aborted save",
				zap.String("asset", asset.ID), zap.Error(rmErr))
		}
		return nil, err
	}
	return item, nil
}

// AddComment appends a comment and returns the item's full comment sequence.
func (g *Gallery) AddComment(itemID, name, text string) ([]models.Comment, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return nil, errs.Validation("name and text are required")
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		Name:      name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.db.AddComment(itemID, comment); err != nil {
		return nil, err
	}

	g.hub.Publish(events.GalleryCommented, map[string]string{"itemId": itemID, "name": name})
	return g.db.GetComments(itemID)
}

// Like increments the item's like counter and returns the new value.
func (g *Gallery) Like(itemID string) (int, error) {
	count, err := g.db.IncrementLikes(itemID)
	if err != nil {
		return 0, err
	}
	g.hub.Publish(events.GalleryLiked, map[string]any{"itemId": itemID, "likes": count})
	return count, nil
}

// Rate records a rating and returns the average recomputed over the full
// rating sequence.
func (g *Gallery) Rate(itemID, user string, value int) (float64, error) {
	if strings.TrimSpace(user) == "" {
		return 0, errs.Validation("user is required")
	}
	if value < 1 || value > 5 {
		return 0, errs.Validation("rating must be between 1 and 5")
	}

	avg, err := g.db.AddRating(itemID, models.Rating{User: user, Value: value}, g.singleRatingPerUser)
	if err != nil {
		return 0, err
	}
	g.hub.Publish(events.GalleryRated, map[string]any{"itemId": itemID, "averageRating": avg})
	return avg, nil
}

// DeleteComment removes a comment by its stable identifier.
func (g *Gallery) DeleteComment(itemID, commentID string) error {
	return g.db.DeleteComment(itemID, commentID)
}

// DeleteItem removes the remote asset best-effort, then deletes the record
// regardless of the asset outcome.
func (g *Gallery) DeleteItem(ctx context.Context, itemID string) error {
	item, err := g.db.GetGalleryItem(itemID)
	if err != nil {
		return err
	}
	if err := g.pipeline.Remove(ctx, item.AssetID); err != nil {
		g.log.Warn("failed to remove gallery asset, deleting record anyway",
			zap.String("asset", item.AssetID), zap.Error(err))
	}
	return g.db.DeleteGalleryItem(itemID)
}
