package storage

import (
	"database/sql"
	"errors"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
)

// SaveCategory inserts a new category. The UNIQUE constraint on the name
// closes the check-then-insert race between concurrent creates.
func (db *DB) SaveCategory(cat *models.MenuCategory) error {
	_, err := db.Exec(`INSERT INTO menu_categories (id, name, created_at) VALUES (?, ?, ?)`,
		cat.ID, cat.Name, cat.CreatedAt)
	if isUniqueViolation(err) {
		return errs.Conflict("category already exists")
	}
	return err
}

// GetCategoryByName retrieves a category and its ordered items by exact name.
func (db *DB) GetCategoryByName(name string) (*models.MenuCategory, error) {
	return db.getCategory(`SELECT id, name, created_at FROM menu_categories WHERE name = ?`, name)
}

// GetCategoryByID retrieves a category and its ordered items.
func (db *DB) GetCategoryByID(id string) (*models.MenuCategory, error) {
	return db.getCategory(`SELECT id, name, created_at FROM menu_categories WHERE id = ?`, id)
}

func (db *DB) getCategory(query string, arg any) (*models.MenuCategory, error) {
	cat := &models.MenuCategory{}
	err := db.QueryRow(query, arg).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if cat.Items, err = db.getItems(cat.ID); err != nil {
		return nil, err
	}
	return cat, nil
}

// GetCategoryNames returns every category name in creation order.
func (db *DB) GetCategoryNames() ([]string, error) {
	rows, err := db.Query(`SELECT name FROM menu_categories ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetAllCategories returns every category with its items, creation order.
func (db *DB) GetAllCategories() ([]*models.MenuCategory, error) {
	return db.listCategories(`SELECT id, name, created_at FROM menu_categories ORDER BY created_at ASC, id ASC`)
}

// GetCategoriesPage returns one page of categories by creation order.
func (db *DB) GetCategoriesPage(offset, limit int) ([]*models.MenuCategory, error) {
	return db.listCategories(`SELECT id, name, created_at FROM menu_categories
	                          ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`, limit, offset)
}

func (db *DB) listCategories(query string, args ...any) ([]*models.MenuCategory, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []*models.MenuCategory{}
	for rows.Next() {
		cat := &models.MenuCategory{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, cat := range cats {
		if cat.Items, err = db.getItems(cat.ID); err != nil {
			return nil, err
		}
	}
	return cats, nil
}

// CountCategories returns the total number of categories.
func (db *DB) CountCategories() (int, error) {
	var total int
	err := db.QueryRow(`SELECT COUNT(*) FROM menu_categories`).Scan(&total)
	return total, err
}

// SaveMenuItem appends an item to the end of its category's item sequence.
func (db *DB) SaveMenuItem(categoryID string, item *models.MenuItem) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow(`SELECT 1 FROM menu_categories WHERE id = ?`, categoryID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM menu_items WHERE category_id = ?`,
		categoryID).Scan(&item.Position); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO menu_items (id, category_id, name, description, price, image_url, asset_id, position, created_at)
	                      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, categoryID, item.Name, item.Description, item.Price,
		item.ImageURL, item.AssetID, item.Position, item.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMenuItem retrieves one item scoped to its category.
func (db *DB) GetMenuItem(categoryID, itemID string) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := db.QueryRow(`SELECT id, name, description, price, image_url, asset_id, position, created_at
	                    FROM menu_items WHERE id = ? AND category_id = ?`, itemID, categoryID).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price,
			&item.ImageURL, &item.AssetID, &item.Position, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem persists the patched fields of an item.
func (db *DB) UpdateMenuItem(categoryID string, item *models.MenuItem) error {
	res, err := db.Exec(`UPDATE menu_items SET name = ?, description = ?, price = ?, image_url = ?, asset_id = ?
	                     WHERE id = ? AND category_id = ?`,
		item.Name, item.Description, item.Price, item.ImageURL, item.AssetID, item.ID, categoryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteMenuItem removes exactly one item by identity; the positions of the
// remaining items are untouched so their order is preserved.
func (db *DB) DeleteMenuItem(categoryID, itemID string) error {
	res, err := db.Exec(`DELETE FROM menu_items WHERE id = ? AND category_id = ?`, itemID, categoryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (db *DB) getItems(categoryID string) ([]models.MenuItem, error) {
	rows, err := db.Query(`SELECT id, name, description, price, image_url, asset_id, position, created_at
	                       FROM menu_items WHERE category_id = ? ORDER BY position ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
			&item.ImageURL, &item.AssetID, &item.Position, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
