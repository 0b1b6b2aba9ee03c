package serializer

import "github.com/iliyamo/travel-listings/internal/model"

// ReviewRepresentation is the wire shape of a review.
type ReviewRepresentation struct {
	ReviewID    string `json:"review_id"`
	Listing     string `json:"listing"`
	ListingName string `json:"listing_name"`
	UserID      string `json:"user_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	CreatedAt   string `json:"created_at"`
}

// RenderReview converts a review read together with its listing name.
func RenderReview(r model.ReviewDetail) ReviewRepresentation {
	return ReviewRepresentation{
		ReviewID:    r.ID.String(),
		Listing:     r.ListingID.String(),
		ListingName: r.ListingName,
		UserID:      r.UserID.String(),
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   formatTimestamp(r.CreatedAt),
	}
}

// RenderReviews converts a page of reviews.
func RenderReviews(rs []model.ReviewDetail) []ReviewRepresentation {
	out := make([]ReviewRepresentation, 0, len(rs))
	for _, r := range rs {
		out = append(out, RenderReview(r))
	}
	return out
}

// ParseReview reads the writable review fields from a JSON object.
func ParseReview(body []byte) (model.ReviewCandidate, error) {
	d, err := newFieldDecoder(body)
	if err != nil {
		return model.ReviewCandidate{}, err
	}
	c := model.ReviewCandidate{
		ListingID: d.uuid("listing"),
		UserID:    d.uuid("user_id"),
		Rating:    d.integer("rating"),
		Comment:   d.text("comment"),
	}
	return c, d.err()
}
