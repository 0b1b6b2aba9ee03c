package validation

import "github.com/iliyamo/travel-listings/internal/model"

// MsgPricePerNight is returned when price_per_night is zero or negative.
const MsgPricePerNight = "Price per night must be greater than zero."

var listingFields = map[string]string{
	"HostID":        "host_id",
	"Name":          "name",
	"Description":   "description",
	"Location":      "location",
	"PricePerNight": "price_per_night",
}

var listingRules = ruleSet[model.ListingCandidate]{
	fields: []Rule[model.ListingCandidate]{
		shape[model.ListingCandidate](listingFields),
		func(c model.ListingCandidate, _ Mode) *Error { return checkMoney("price_per_night", c.PricePerNight) },
		func(c model.ListingCandidate, m Mode) *Error { return required("host_id", c.HostID != nil, m) },
		func(c model.ListingCandidate, m Mode) *Error { return requiredString("name", c.Name, m) },
		func(c model.ListingCandidate, m Mode) *Error { return requiredString("description", c.Description, m) },
		func(c model.ListingCandidate, m Mode) *Error { return requiredString("location", c.Location, m) },
		func(c model.ListingCandidate, m Mode) *Error { return required("price_per_night", c.PricePerNight != nil, m) },
		pricePerNightPositive,
	},
}

func pricePerNightPositive(c model.ListingCandidate, _ Mode) *Error {
	if c.PricePerNight != nil && !c.PricePerNight.IsPositive() {
		return NewError("price_per_night", MsgPricePerNight)
	}
	return nil
}

// ValidateListing checks a listing candidate.
func ValidateListing(c model.ListingCandidate, mode Mode) error {
	return listingRules.run(c, mode)
}
