package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
)

// SaveReservation inserts a new reservation. A duplicate reference number
// surfaces as a Conflict so the caller can regenerate and retry.
func (db *DB) SaveReservation(r *models.Reservation) error {
	query := `INSERT INTO reservations (id, first_name, last_name, email, phone, guest_count, date, time, status, reference_number, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query, r.ID, r.FirstName, r.LastName, r.Email, r.Phone, r.GuestCount,
		r.Date, r.Time, r.Status, r.ReferenceNumber, r.CreatedAt, r.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.Conflict("reference number already in use")
	}
	return err
}

// GetReservationByReference looks up a reservation by its shareable token.
func (db *DB) GetReservationByReference(ref string) (*models.Reservation, error) {
	return db.getReservation(`WHERE reference_number = ?`, ref)
}

// GetReservationByID looks up a reservation by its internal identifier.
func (db *DB) GetReservationByID(id string) (*models.Reservation, error) {
	return db.getReservation(`WHERE id = ?`, id)
}

func (db *DB) getReservation(where string, arg any) (*models.Reservation, error) {
	r := &models.Reservation{}
	query := `SELECT id, first_name, last_name, email, phone, guest_count, date, time, status, reference_number, created_at, updated_at
	          FROM reservations ` + where
	err := db.QueryRow(query, arg).Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Phone,
		&r.GuestCount, &r.Date, &r.Time, &r.Status, &r.ReferenceNumber, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReservationStatus persists the new status and returns the updated
// record. Setting the current status again is a harmless no-op write.
func (db *DB) UpdateReservationStatus(id, status string) (*models.Reservation, error) {
	res, err := db.Exec(`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errs.ErrNotFound
	}
	return db.GetReservationByID(id)
}

// GetAllReservations retrieves every reservation, newest first.
func (db *DB) GetAllReservations() ([]*models.Reservation, error) {
	rows, err := db.Query(`SELECT id, first_name, last_name, email, phone, guest_count, date, time, status, reference_number, created_at, updated_at
	                       FROM reservations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := []*models.Reservation{}
	for rows.Next() {
		r := &models.Reservation{}
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.GuestCount,
			&r.Date, &r.Time, &r.Status, &r.ReferenceNumber, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}
