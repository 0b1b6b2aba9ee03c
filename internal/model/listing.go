package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing represents a property that hosts offer for booking.  The host
// is an opaque identifier owned by the external identity system; there
// is no local host table.  This struct corresponds to a row in the
// `listings` table.
//
// Fields:
//  ID            – primary key, generated on insert and never updated.
//  HostID        – identifier of the owning user.
//  Name          – short display name (max 200 chars).
//  Description   – long free-form text.
//  Location      – short location text (max 200 chars).
//  PricePerNight – fixed-point amount, always greater than zero.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Listing struct {
	ID            uuid.UUID       `db:"listing_id"`      // listings.listing_id
	HostID        uuid.UUID       `db:"host_id"`         // listings.host_id
	Name          string          `db:"name"`            // listings.name
	Description   string          `db:"description"`     // listings.description
	Location      string          `db:"location"`        // listings.location
	PricePerNight decimal.Decimal `db:"price_per_night"` // listings.price_per_night
	CreatedAt     time.Time       `db:"created_at"`      // listings.created_at
	UpdatedAt     time.Time       `db:"updated_at"`      // listings.updated_at
}

// ListingCandidate is the writable field set of a listing as received from
// a caller.  Nil fields were not supplied.
type ListingCandidate struct {
	HostID        *uuid.UUID
	Name          *string `validate:"omitempty,max=200"`
	Description   *string
	Location      *string `validate:"omitempty,max=200"`
	PricePerNight *decimal.Decimal
}

// Apply copies every supplied field of c onto l.
func (c ListingCandidate) Apply(l *Listing) {
	if c.HostID != nil {
		l.HostID = *c.HostID
	}
	if c.Name != nil {
		l.Name = *c.Name
	}
	if c.Description != nil {
		l.Description = *c.Description
	}
	if c.Location != nil {
		l.Location = *c.Location
	}
	if c.PricePerNight != nil {
		l.PricePerNight = *c.PricePerNight
	}
}

// ListingCandidateFrom returns a candidate with every field taken from l.
func ListingCandidateFrom(l Listing) ListingCandidate {
	return ListingCandidate{
		HostID:        &l.HostID,
		Name:          &l.Name,
		Description:   &l.Description,
		Location:      &l.Location,
		PricePerNight: &l.PricePerNight,
	}
}
