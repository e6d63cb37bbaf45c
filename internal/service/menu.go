package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

const (
	menuFolder       = "menu"
	defaultPage      = 1
	defaultPageLimit = 10
)

// Menu owns categories and their nested ordered items.
type Menu struct {
	db       *storage.DB
	pipeline *assets.Pipeline
	log      *zap.Logger
}

func NewMenu(db *storage.DB, pipeline *assets.Pipeline, log *zap.Logger) *Menu {
	return &Menu{db: db, pipeline: pipeline, log: log}
}

// ItemFields are the client-supplied fields of a menu item. A nil Price
// means the field was absent from the request.
type ItemFields struct {
	Name        string
	Description string
	Price       *float64
}

// CategoryPage is one page of categories with the paging totals.
type CategoryPage struct {
	Categories  []*models.MenuCategory `json:"categories"`
	Total       int                    `json:"totalCategories"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
}

// CreateCategory creates an empty category with a unique name.
func (m *Menu) CreateCategory(name string) (*models.MenuCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("category name is required")
	}

	// Friendly-path duplicate check; the UNIQUE constraint still backstops
	// two concurrent creates racing past it.
	if _, err := m.db.GetCategoryByName(name); err == nil {
		return nil, errs.Conflict("category already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	cat := &models.MenuCategory{
		ID:        uuid.NewString(),
		Name:      name,
		Items:     []models.MenuItem{},
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.SaveCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// CategoryNames returns the distinct set of category names.
func (m *Menu) CategoryNames() ([]string, error) {
	return m.db.GetCategoryNames()
}

// ForDisplay maps each category name to its ordered item sequence.
func (m *Menu) ForDisplay() (map[string][]models.MenuItem, error) {
	cats, err := m.db.GetAllCategories()
	if err != nil {
		return nil, err
	}
	display := make(map[string][]models.MenuItem, len(cats))
	for _, cat := range cats {
		display[cat.Name] = cat.Items
	}
	return display, nil
}

// Paged returns one page of categories by creation order with totals.
func (m *Menu) Paged(page, limit int) (*CategoryPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	total, err := m.db.CountCategories()
	if err != nil {
		return nil, err
	}
	cats, err := m.db.GetCategoriesPage((page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &CategoryPage{
		Categories:  cats,
		Total:       total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

// AddItem uploads the image, then appends a new item to the named category.
// The upload happens first to mirror the external-first sequencing of the
// workflow; when the category turns out to be missing the just-stored asset
// is removed so it does not become an orphan.
func (m *Menu) AddItem(ctx context.Context, categoryName string, fields ItemFields, image assets.Upload) (*models.MenuCategory, error) {
	if strings.TrimSpace(categoryName) == "" {
		return nil, errs.Validation("category is required")
	}
	if err := validateItemFields(fields); err != nil {
		return nil, err
	}

	asset, err := m.pipeline.Store(ctx, image, menuFolder)
	if err != nil {
		return nil, err
	}

	cat, err := m.db.GetCategoryByName(categoryName)
	if err != nil {
		m.removeOrphan(ctx, asset.ID, "category lookup failed")
		return nil, err
	}

	item := &models.MenuItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(fields.Name),
		Description: strings.TrimSpace(fields.Description),
		Price:       *fields.Price,
		ImageURL:    asset.URL,
		AssetID:     asset.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.db.SaveMenuItem(cat.ID, item); err != nil {
		m.removeOrphan(ctx, asset.ID, "item save failed")
		return nil, err
	}
	return m.db.GetCategoryByID(cat.ID)
}

// UpdateItem applies the name/description/price patch and, when a new image
// is supplied, replaces the asset. The superseded asset is removed only
// after the record update commits.
func (m *Menu) UpdateItem(ctx context.Context, categoryID, itemID string, patch models.MenuItemPatch, image *assets.Upload) (*models.MenuItem, error) {
	item, err := m.db.GetMenuItem(categoryID, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}

	var superseded string
	if image != nil {
		asset, err := m.pipeline.Store(ctx, *image, menuFolder)
		if err != nil {
			return nil, err
		}
		superseded = item.AssetID
		item.ImageURL = asset.URL
		item.AssetID = asset.ID
	}

	if err := m.db.UpdateMenuItem(categoryID, item); err != nil {
		if image != nil {
			m.removeOrphan(ctx, item.AssetID, "item update failed")
		}
		return nil, err
	}
	if superseded != "" {
		m.removeOrphan(ctx, superseded, "superseded by new image")
	}
	return item, nil
}

// DeleteItem removes exactly one item by identity and cleans up its asset
// best-effort afterwards.
func (m *Menu) DeleteItem(ctx context.Context, categoryID, itemID string) error {
	item, err := m.db.GetMenuItem(categoryID, itemID)
	if err != nil {
		return err
	}
	if err := m.db.DeleteMenuItem(categoryID, itemID); err != nil {
		return err
	}
	m.removeOrphan(ctx, item.AssetID, "item deleted")
	return nil
}

func (m *Menu) removeOrphan(ctx context.Context, assetID, reason string) {
	if err := m.pipeline.Remove(ctx, assetID); err != nil {
		m.log.Warn("asset cleanup failed",
			zap.String("asset", assetID),
			zap.String("reason", reason),
			zap.Error(err))
	}
}

func validateItemFields(fields ItemFields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return errs.Validation("name is required")
	}
	if strings.TrimSpace(fields.Description) == "" {
		return errs.Validation("description is required")
	}
	if fields.Price == nil {
		return errs.Validation("price is required")
	}
	return nil
}
