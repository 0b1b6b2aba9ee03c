package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// ReviewService creates and removes reviews.  Reviews cannot be edited.
type ReviewService struct {
	reviews  ReviewStore
	listings ListingStore
	log      *slog.Logger
}

// NewReviewService panics when a store is nil.
func NewReviewService(reviews ReviewStore, listings ListingStore, logger *slog.Logger) *ReviewService {
	if reviews == nil || listings == nil {
		panic("nil store passed to NewReviewService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{reviews: reviews, listings: listings, log: logger}
}

// Create validates c, checks the listing and stores the review.
func (s *ReviewService) Create(ctx context.Context, c model.ReviewCandidate) (*model.ReviewDetail, error) {
	verr := validation.ValidateReview(c, validation.Full)
	if err := checkListing(ctx, s.listings, c.ListingID, verr); err != nil {
		return nil, err
	}
	var r model.Review
	c.Apply(&r)
	if err := s.reviews.Create(ctx, &r); err != nil {
		return nil, err
	}
	d, err := s.reviews.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "review created", "review_id", d.ID, "listing_id", d.ListingID, "rating", d.Rating)
	return d, nil
}

// Get returns a review with its listing name.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*model.ReviewDetail, error) {
	return s.reviews.GetByID(ctx, id)
}

// List returns a page of reviews and the total count.
func (s *ReviewService) List(ctx context.Context, f repository.ReviewFilter) ([]model.ReviewDetail, int64, error) {
	return s.reviews.List(ctx, f)
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "review deleted", "review_id", id)
	return nil
}
