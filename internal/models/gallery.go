package models

import "time"

// GalleryItem is a photo on the public gallery page together with its
// engagement data. AverageRating is derived from the rating rows on every
// read; it is never stored on its own.
type GalleryItem struct {
	ID            string    `json:"id"`
	ImageURL      string    `json:"image"`
	AssetID       string    `json:"-"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	LikeCount     int       `json:"likes"`
	Comments      []Comment `json:"comments"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Comment carries a stable identifier so deletion targets a specific comment
// rather than a position that shifts under concurrent appends.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}

// Rating is one submitted score in the 1..5 range.
type Rating struct {
	User  string `json:"user"`
	Value int    `json:"rating"`
}
