package service

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/events"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/notify"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

// refAlphabet avoids look-alike characters so a customer can read the
// reference over the phone.
const refAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const refLength = 10

// maxRefAttempts bounds the generate-and-retry loop on reference collisions.
const maxRefAttempts = 5

// Reservations coordinates the reservation lifecycle: persistence first,
// then notification dispatch that never affects the returned result.
type Reservations struct {
	db         *storage.DB
	dispatcher *notify.Dispatcher
	hub        *events.Hub
	log        *zap.Logger
	adminEmail string
}

func NewReservations(db *storage.DB, dispatcher *notify.Dispatcher, hub *events.Hub, adminEmail string, log *zap.Logger) *Reservations {
	return &Reservations{
		db:         db,
		dispatcher: dispatcher,
		hub:        hub,
		log:        log,
		adminEmail: adminEmail,
	}
}

// ReservationInput is the customer-facing creation payload.
type ReservationInput struct {
	FirstName  string `json:"fName"`
	LastName   string `json:"lName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	GuestCount int    `json:"guest"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// Create persists a pending reservation under a fresh unique reference and
// then queues the confirmation and admin-alert emails. The reservation is
// durable before any email work starts, so dispatch failure cannot fail
// the request.
func (s *Reservations) Create(in ReservationInput) (*models.Reservation, error) {
	if err := validateReservationInput(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &models.Reservation{
		ID:         uuid.NewString(),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		GuestCount: in.GuestCount,
		Date:       in.Date,
		Time:       in.Time,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var err error
	for attempt := 0; attempt < maxRefAttempts; attempt++ {
		r.ReferenceNumber = newReferenceNumber()
		err = s.db.SaveReservation(r)
		if !errs.IsConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(notify.Email{
		To:      r.Email,
		Subject: "Reservation Confirmation",
		Body: fmt.Sprintf("Dear %s,\n\nYour reservation request has been received.\nReference Number: %s\n\nThank you for choosing us!",
			r.FirstName, r.ReferenceNumber),
	})
	if s.adminEmail != "" {
		s.dispatcher.Enqueue(notify.Email{
			To:      s.adminEmail,
			Subject: "New Reservation Received",
			Body: fmt.Sprintf("A new reservation has been made.\n\nName: %s %s\nGuests: %d\nDate: %s\nTime: %s\nReference Number: %s",
				r.FirstName, r.LastName, r.GuestCount, r.Date, r.Time, r.ReferenceNumber),
		})
	}
	s.hub.Publish(events.ReservationCreated, r)

	return r, nil
}

// GetByReference looks a reservation up by its shareable token.
func (s *Reservations) GetByReference(ref string) (*models.Reservation, error) {
	return s.db.GetReservationByReference(ref)
}

// UpdateStatus validates and persists the new status, then queues the
// status-change email. The stored status is untouched on a validation
// failure and the persisted result is returned regardless of dispatch.
func (s *Reservations) UpdateStatus(id, status string) (*models.Reservation, error) {
	if !models.ValidStatus(status) {
		return nil, errs.Validation("status must be pending, confirmed or cancelled")
	}

	r, err := s.db.UpdateReservationStatus(id, status)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(notify.Email{
		To:      r.Email,
		Subject: "Reservation Status Update",
		Body: fmt.Sprintf("Dear %s,\n\nYour reservation status has been updated to: %s.\nReference Number: %s",
			r.FirstName, r.Status, r.ReferenceNumber),
	})
	s.hub.Publish(events.ReservationUpdated, r)

	return r, nil
}

// ListAll returns every reservation for the admin dashboard.
func (s *Reservations) ListAll() ([]*models.Reservation, error) {
	return s.db.GetAllReservations()
}

func validateReservationInput(in ReservationInput) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return errs.Validation("first name is required")
	case strings.TrimSpace(in.LastName) == "":
		return errs.Validation("last name is required")
	case strings.TrimSpace(in.Email) == "":
		return errs.Validation("email is required")
	case strings.TrimSpace(in.Phone) == "":
		return errs.Validation("phone is required")
	case in.GuestCount < 1:
		return errs.Validation("guest count must be at least 1")
	case strings.TrimSpace(in.Date) == "":
		return errs.Validation("date is required")
	case strings.TrimSpace(in.Time) == "":
		return errs.Validation("time is required")
	}
	return nil
}

func newReferenceNumber() string {
	buf := make([]byte, refLength)
	rand.Read(buf)
	out := make([]byte, refLength)
	for i, b := range buf {
		out[i] = refAlphabet[int(b)%len(refAlphabet)]
	}
	return "RES-" + string(out)
}
