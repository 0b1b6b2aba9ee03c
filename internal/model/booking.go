package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is the state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

// BookingStatuses lists every accepted status in declaration order.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCanceled}

// Valid reports whether s is one of the declared statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}

// Booking records a reservation of a listing by a user for a range of
// calendar dates.  Deleting the listing deletes the booking.
//
// Fields:
//  ID         – primary key, generated on insert and never updated.
//  ListingID  – listing being booked.
//  UserID     – identifier of the booking user.
//  StartDate  – first night (date only, UTC midnight).
//  EndDate    – checkout date, strictly after StartDate.
//  TotalPrice – fixed-point amount, always greater than zero.
//  Status     – pending, confirmed or canceled.
//  CreatedAt  – creation timestamp.
type Booking struct {
	ID         uuid.UUID       `db:"booking_id"`  // bookings.booking_id
	ListingID  uuid.UUID       `db:"listing_id"`  // bookings.listing_id
	UserID     uuid.UUID       `db:"user_id"`     // bookings.user_id
	StartDate  time.Time       `db:"start_date"`  // bookings.start_date
	EndDate    time.Time       `db:"end_date"`    // bookings.end_date
	TotalPrice decimal.Decimal `db:"total_price"` // bookings.total_price
	Status     BookingStatus   `db:"status"`      // bookings.status
	CreatedAt  time.Time       `db:"created_at"`  // bookings.created_at
}

// BookingDetail is a booking together with the name and location of its
// listing, read through the listing relationship by the same query.
type BookingDetail struct {
	Booking
	ListingName     string `db:"listing_name"`     // listings.name
	ListingLocation string `db:"listing_location"` // listings.location
}

// BookingCandidate is the writable field set of a booking.
type BookingCandidate struct {
	ListingID  *uuid.UUID
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	TotalPrice *decimal.Decimal
	Status     *BookingStatus `validate:"omitempty,oneof=pending confirmed canceled"`
}

// Apply copies every supplied field of c onto b.
func (c BookingCandidate) Apply(b *Booking) {
	if c.ListingID != nil {
		b.ListingID = *c.ListingID
	}
	if c.UserID != nil {
		b.UserID = *c.UserID
	}
	if c.StartDate != nil {
		b.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		b.EndDate = *c.EndDate
	}
	if c.TotalPrice != nil {
		b.TotalPrice = *c.TotalPrice
	}
	if c.Status != nil {
		b.Status = *c.Status
	}
}

// BookingCandidateFrom returns a candidate with every field taken from b.
func BookingCandidateFrom(b Booking) BookingCandidate {
	return BookingCandidate{
		ListingID:  &b.ListingID,
		UserID:     &b.UserID,
		StartDate:  &b.StartDate,
		EndDate:    &b.EndDate,
		TotalPrice: &b.TotalPrice,
		Status:     &b.Status,
	}
}
