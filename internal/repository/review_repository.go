package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-listings/internal/model"
)

const reviewDetailColumns = `r.review_id, r.listing_id, r.user_id, r.rating, r.comment, r.created_at,
	l.name AS listing_name`

const reviewFrom = `reviews r JOIN listings l ON l.listing_id = r.listing_id`

// ReviewFilter narrows List.
type ReviewFilter struct {
	ListingID *uuid.UUID // ListingID keeps reviews of one listing
	UserID    *uuid.UUID // UserID keeps reviews written by one user
	Rating    *int       // Rating keeps reviews with exactly this rating
	Page      Page       // Page selects the window
}

// ReviewRepo encapsulates all database queries related to reviews.
// Reviews are immutable once written, so there is no update method.
type ReviewRepo struct {
	db *sqlx.DB // db is the shared connection pool
}

// NewReviewRepo constructs a ReviewRepo with the provided DB handle.
func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review.  The rating CHECK constraint rejects values
// outside 1..5 independently of validation; such a rejection surfaces as a
// *ConstraintViolation.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	rv.ID = uuid.New()
	const q = `INSERT INTO reviews (review_id, listing_id, user_id, rating, comment) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, rv.ID, rv.ListingID, rv.UserID, rv.Rating, rv.Comment); err != nil {
		return fmt.Errorf("ReviewRepo.Create: %w", translate(err))
	}
	return nil
}

// GetByID fetches a review with its listing name.
func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewDetail, error) {
	q := `SELECT ` + reviewDetailColumns + ` FROM ` + reviewFrom + ` WHERE r.review_id = ?`
	var rv model.ReviewDetail
	if err := r.db.GetContext(ctx, &rv, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("ReviewRepo.GetByID: %w", err)
	}
	return &rv, nil
}

// List returns one page of reviews, newest first, and the total count.
func (r *ReviewRepo) List(ctx context.Context, f ReviewFilter) ([]model.ReviewDetail, int64, error) {
	var cond conditions
	if f.ListingID != nil {
		cond.add("r.listing_id = ?", *f.ListingID)
	}
	if f.UserID != nil {
		cond.add("r.user_id = ?", *f.UserID)
	}
	if f.Rating != nil {
		cond.add("r.rating = ?", *f.Rating)
	}
	out := []model.ReviewDetail{}
	total, err := listPage(ctx, r.db, &out, reviewDetailColumns, reviewFrom, "r.created_at DESC", cond, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("ReviewRepo.List: %w", err)
	}
	return out, total, nil
}

// Delete removes a single review.
func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = ?`, id)
	if err != nil {
		return fmt.Errorf("ReviewRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
