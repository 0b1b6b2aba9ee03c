package validation

import "github.com/iliyamo/travel-listings/internal/model"

// MsgRating is returned when the rating is outside [MinRating, MaxRating].
const MsgRating = "Rating must be between 1 and 5."

var reviewRules = ruleSet[model.ReviewCandidate]{
	fields: []Rule[model.ReviewCandidate]{
		func(c model.ReviewCandidate, m Mode) *Error { return required("listing", c.ListingID != nil, m) },
		func(c model.ReviewCandidate, m Mode) *Error { return required("user_id", c.UserID != nil, m) },
		func(c model.ReviewCandidate, m Mode) *Error { return required("rating", c.Rating != nil, m) },
		func(c model.ReviewCandidate, m Mode) *Error { return requiredString("comment", c.Comment, m) },
		ratingInRange,
	},
}

func ratingInRange(c model.ReviewCandidate, _ Mode) *Error {
	if c.Rating == nil {
		return nil
	}
	if *c.Rating < model.MinRating || *c.Rating > model.MaxRating {
		return NewError("rating", MsgRating)
	}
	return nil
}

// ValidateReview checks a review candidate.
func ValidateReview(c model.ReviewCandidate, mode Mode) error {
	return reviewRules.run(c, mode)
}
