package models

import "time"

// Reservation statuses. A reservation starts pending and moves to confirmed
// or cancelled; re-setting the current status is a no-op.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the three reservation states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Reservation is a table booking. ReferenceNumber is the shareable lookup
// token handed to the customer; it is assigned at creation and never changes.
type Reservation struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"fName"`
	LastName        string    `json:"lName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	GuestCount      int       `json:"guest"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	ReferenceNumber string    `json:"referenceNumber"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
