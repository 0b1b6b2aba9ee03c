package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds, inclusive.  The reviews table carries the same range as a
// CHECK constraint.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating and comment a user left for a listing.  Reviews
// are never updated; they are removed with their listing.
//
// Fields:
//  ID        – primary key, generated on insert.
//  ListingID – reviewed listing.
//  UserID    – identifier of the reviewing user.
//  Rating    – integer between MinRating and MaxRating.
//  Comment   – free-form text.
//  CreatedAt – creation timestamp.
type Review struct {
	ID        uuid.UUID `db:"review_id"`  // reviews.review_id
	ListingID uuid.UUID `db:"listing_id"` // reviews.listing_id
	UserID    uuid.UUID `db:"user_id"`    // reviews.user_id
	Rating    int       `db:"rating"`     // reviews.rating
	Comment   string    `db:"comment"`    // reviews.comment
	CreatedAt time.Time `db:"created_at"` // reviews.created_at
}

// ReviewDetail is a review together with the current name of its listing.
type ReviewDetail struct {
	Review
	ListingName string `db:"listing_name"` // listings.name
}

// ReviewCandidate is the writable field set of a review.
type ReviewCandidate struct {
	ListingID *uuid.UUID
	UserID    *uuid.UUID
	Rating    *int
	Comment   *string
}

// Apply copies every supplied field of c onto r.
func (c ReviewCandidate) Apply(r *Review) {
	if c.ListingID != nil {
		r.ListingID = *c.ListingID
	}
	if c.UserID != nil {
		r.UserID = *c.UserID
	}
	if c.Rating != nil {
		r.Rating = *c.Rating
	}
	if c.Comment != nil {
		r.Comment = *c.Comment
	}
}
