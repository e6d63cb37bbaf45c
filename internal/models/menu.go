package models

import "time"

// MenuCategory groups menu items under a unique, case-sensitive name.
// Items keep their insertion order.
type MenuCategory struct {
	ID        string     `json:"id"`
	Name      string     `json:"category"`
	Items     []MenuItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MenuItem is one dish inside a category. The asset id points at the stored
// image so a superseded or orphaned asset can be cleaned up.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image"`
	AssetID     string    `json:"-"`
	Position    int       `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MenuItemPatch carries the updatable fields of a menu item. Nil means
// "leave unchanged"; only name, description and price are ever patched.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
}
