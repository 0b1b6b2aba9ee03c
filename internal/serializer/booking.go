package serializer

import "github.com/iliyamo/travel-listings/internal/model"

// BookingRepresentation is the wire shape of a booking.  ListingName and
// ListingLocation come from the listing row joined when the booking was
// read; they are never accepted on input.
type BookingRepresentation struct {
	BookingID       string `json:"booking_id"`
	Listing         string `json:"listing"`
	ListingName     string `json:"listing_name"`
	ListingLocation string `json:"listing_location"`
	UserID          string `json:"user_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalPrice      string `json:"total_price"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// RenderBooking converts a booking read together with its listing.
func RenderBooking(b model.BookingDetail) BookingRepresentation {
	return BookingRepresentation{
		BookingID:       b.ID.String(),
		Listing:         b.ListingID.String(),
		ListingName:     b.ListingName,
		ListingLocation: b.ListingLocation,
		UserID:          b.UserID.String(),
		StartDate:       formatDate(b.StartDate),
		EndDate:         formatDate(b.EndDate),
		TotalPrice:      formatMoney(b.TotalPrice),
		Status:          string(b.Status),
		CreatedAt:       formatTimestamp(b.CreatedAt),
	}
}

// RenderBookings converts a page of bookings.
func RenderBookings(bs []model.BookingDetail) []BookingRepresentation {
	out := make([]BookingRepresentation, 0, len(bs))
	for _, b := range bs {
		out = append(out, RenderBooking(b))
	}
	return out
}

// ParseBooking reads the writable booking fields from a JSON object.
func ParseBooking(body []byte) (model.BookingCandidate, error) {
	d, err := newFieldDecoder(body)
	if err != nil {
		return model.BookingCandidate{}, err
	}
	c := model.BookingCandidate{
		ListingID:  d.uuid("listing"),
		UserID:     d.uuid("user_id"),
		StartDate:  d.date("start_date"),
		EndDate:    d.date("end_date"),
		TotalPrice: d.number("total_price"),
		Status:     d.status("status"),
	}
	return c, d.err()
}
