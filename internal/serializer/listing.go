package serializer

import "github.com/iliyamo/travel-listings/internal/model"

// ListingRepresentation is the wire shape of a listing.  listing_id,
// created_at and updated_at are output only.
type ListingRepresentation struct {
	ListingID     string `json:"listing_id"`
	HostID        string `json:"host_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// RenderListing converts a stored listing to its wire shape.
func RenderListing(l model.Listing) ListingRepresentation {
	return ListingRepresentation{
		ListingID:     l.ID.String(),
		HostID:        l.HostID.String(),
		Name:          l.Name,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: formatMoney(l.PricePerNight),
		CreatedAt:     formatTimestamp(l.CreatedAt),
		UpdatedAt:     formatTimestamp(l.UpdatedAt),
	}
}

// RenderListings converts a page of listings.
func RenderListings(ls []model.Listing) []ListingRepresentation {
	out := make([]ListingRepresentation, 0, len(ls))
	for _, l := range ls {
		out = append(out, RenderListing(l))
	}
	return out
}

// ParseListing reads the writable listing fields from a JSON object.
// Unknown and output-only keys are ignored.
func ParseListing(body []byte) (model.ListingCandidate, error) {
	d, err := newFieldDecoder(body)
	if err != nil {
		return model.ListingCandidate{}, err
	}
	c := model.ListingCandidate{
		HostID:        d.uuid("host_id"),
		Name:          d.text("name"),
		Description:   d.text("description"),
		Location:      d.text("location"),
		PricePerNight: d.number("price_per_night"),
	}
	return c, d.err()
}
