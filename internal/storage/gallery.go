package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
)

// SaveGalleryItem inserts a new gallery record.
func (db *DB) SaveGalleryItem(item *models.GalleryItem) error {
	query := `INSERT INTO gallery_items (id, image_url, asset_id, title, description, like_count, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query, item.ID, item.ImageURL, item.AssetID, item.Title, item.Description,
		item.LikeCount, item.CreatedAt, item.UpdatedAt)
	return err
}

// GetGalleryItem retrieves one item with its comments, ratings and the
// average recomputed from the rating rows.
func (db *DB) GetGalleryItem(id string) (*models.GalleryItem, error) {
	item := &models.GalleryItem{}
	query := `SELECT id, image_url, asset_id, title, description, like_count, created_at, updated_at
	          FROM gallery_items WHERE id = ?`
	err := db.QueryRow(query, id).Scan(&item.ID, &item.ImageURL, &item.AssetID, &item.Title,
		&item.Description, &item.LikeCount, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if item.Comments, err = db.GetComments(id); err != nil {
		return nil, err
	}
	if item.Ratings, err = db.getRatings(id); err != nil {
		return nil, err
	}
	item.AverageRating = averageOf(item.Ratings)
	return item, nil
}

// GetAllGalleryItems retrieves every gallery item. Comments and ratings are
// loaded in two batch queries and grouped by item.
func (db *DB) GetAllGalleryItems() ([]*models.GalleryItem, error) {
	rows, err := db.Query(`SELECT id, image_url, asset_id, title, description, like_count, created_at, updated_at
	                       FROM gallery_items ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.GalleryItem
	byID := make(map[string]*models.GalleryItem)
	for rows.Next() {
		item := &models.GalleryItem{Comments: []models.Comment{}, Ratings: []models.Rating{}}
		if err := rows.Scan(&item.ID, &item.ImageURL, &item.AssetID, &item.Title,
			&item.Description, &item.LikeCount, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	commentRows, err := db.Query(`SELECT id, item_id, name, text, created_at
	                              FROM gallery_comments ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var c models.Comment
		var itemID string
		if err := commentRows.Scan(&c.ID, &itemID, &c.Name, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		if item, ok := byID[itemID]; ok {
			item.Comments = append(item.Comments, c)
		}
	}

	ratingRows, err := db.Query(`SELECT item_id, user_name, value FROM gallery_ratings ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer ratingRows.Close()
	for ratingRows.Next() {
		var r models.Rating
		var itemID string
		if err := ratingRows.Scan(&itemID, &r.User, &r.Value); err != nil {
			return nil, err
		}
		if item, ok := byID[itemID]; ok {
			item.Ratings = append(item.Ratings, r)
		}
	}

	for _, item := range items {
		item.AverageRating = averageOf(item.Ratings)
	}
	return items, nil
}

// AddComment appends a comment to an existing item.
func (db *DB) AddComment(itemID string, c *models.Comment) error {
	if err := db.galleryItemExists(itemID); err != nil {
		return err
	}
	query := `INSERT INTO gallery_comments (id, item_id, name, text, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(query, c.ID, itemID, c.Name, c.Text, c.CreatedAt)
	return err
}

// GetComments retrieves an item's comments in chronological order.
func (db *DB) GetComments(itemID string) ([]models.Comment, error) {
	rows, err := db.Query(`SELECT id, name, text, created_at FROM gallery_comments
	                       WHERE item_id = ? ORDER BY created_at ASC, id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Name, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes one comment by its stable identifier.
func (db *DB) DeleteComment(itemID, commentID string) error {
	res, err := db.Exec(`DELETE FROM gallery_comments WHERE id = ? AND item_id = ?`, commentID, itemID)
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

// IncrementLikes bumps the like counter atomically in the database so
// concurrent likes never lose an update, and returns the new count.
func (db *DB) IncrementLikes(itemID string) (int, error) {
	res, err := db.Exec(`UPDATE gallery_items SET like_count = like_count + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), itemID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, errs.ErrNotFound
	}

	var count int
	if err := db.QueryRow(`SELECT like_count FROM gallery_items WHERE id = ?`, itemID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AddRating appends (or, with replaceByUser, upserts) a rating row and
// returns the average recomputed over the full rating set.
func (db *DB) AddRating(itemID string, r models.Rating, replaceByUser bool) (float64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM gallery_items WHERE id = ?`, itemID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if replaceByUser {
		if _, err := tx.Exec(`DELETE FROM gallery_ratings WHERE item_id = ? AND user_name = ?`,
			itemID, r.User); err != nil {
			return 0, err
		}
	}
	if _, err := tx.Exec(`INSERT INTO gallery_ratings (item_id, user_name, value, created_at) VALUES (?, ?, ?, ?)`,
		itemID, r.User, r.Value, time.Now().UTC()); err != nil {
		return 0, err
	}

	// averageRating is derived; always recomputed from the source rows.
	var avg float64
	if err := tx.QueryRow(`SELECT AVG(value) FROM gallery_ratings WHERE item_id = ?`, itemID).Scan(&avg); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return avg, nil
}

// DeleteGalleryItem removes the record; comments and ratings cascade.
func (db *DB) DeleteGalleryItem(id string) error {
	res, err := db.Exec(`DELETE FROM gallery_items WHERE id = ?`, id)
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

func (db *DB) galleryItemExists(id string) error {
	var one int
	err := db.QueryRow(`SELECT 1 FROM gallery_items WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking gallery item: %w", err)
	}
	return nil
}

func (db *DB) getRatings(itemID string) ([]models.Rating, error) {
	rows, err := db.Query(`SELECT user_name, value FROM gallery_ratings WHERE item_id = ? ORDER BY id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.User, &r.Value); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func averageOf(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}
