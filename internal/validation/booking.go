package validation

import "github.com/iliyamo/travel-listings/internal/model"

// Booking rule messages.
const (
	MsgTotalPrice = "Total price must be greater than zero."
	MsgDateOrder  = "End date must be after start date."
)

var bookingFields = map[string]string{
	"ListingID":  "listing",
	"UserID":     "user_id",
	"StartDate":  "start_date",
	"EndDate":    "end_date",
	"TotalPrice": "total_price",
	"Status":     "status",
}

// Status is optional in every mode; an absent status means pending.
var bookingRules = ruleSet[model.BookingCandidate]{
	fields: []Rule[model.BookingCandidate]{
		shape[model.BookingCandidate](bookingFields),
		func(c model.BookingCandidate, _ Mode) *Error { return checkMoney("total_price", c.TotalPrice) },
		func(c model.BookingCandidate, m Mode) *Error { return required("listing", c.ListingID != nil, m) },
		func(c model.BookingCandidate, m Mode) *Error { return required("user_id", c.UserID != nil, m) },
		func(c model.BookingCandidate, m Mode) *Error { return required("start_date", c.StartDate != nil, m) },
		func(c model.BookingCandidate, m Mode) *Error { return required("end_date", c.EndDate != nil, m) },
		func(c model.BookingCandidate, m Mode) *Error { return required("total_price", c.TotalPrice != nil, m) },
		totalPricePositive,
	},
	objects: []Rule[model.BookingCandidate]{
		endAfterStart,
	},
}

func totalPricePositive(c model.BookingCandidate, _ Mode) *Error {
	if c.TotalPrice != nil && !c.TotalPrice.IsPositive() {
		return NewError("total_price", MsgTotalPrice)
	}
	return nil
}

// endAfterStart only applies when both dates are supplied.
func endAfterStart(c model.BookingCandidate, _ Mode) *Error {
	if c.StartDate == nil || c.EndDate == nil {
		return nil
	}
	if !c.EndDate.After(*c.StartDate) {
		return NewError(NonFieldErrors, MsgDateOrder)
	}
	return nil
}

// ValidateBooking checks a booking candidate.
func ValidateBooking(c model.BookingCandidate, mode Mode) error {
	return bookingRules.run(c, mode)
}
