// Package queue defines the booking event payload exchanged over RabbitMQ,
// the publisher used by the booking service and the background consumer
// that appends events to the booking log.
package queue

import (
	"time"

	"github.com/iliyamo/travel-listings/internal/model"
)

// EventType names what happened to a booking.
type EventType string

const (
	BookingCreated   EventType = "booking.created"
	BookingConfirmed EventType = "booking.confirmed"
	BookingCanceled  EventType = "booking.canceled"
)

// BookingEvent is published after a booking is created or changes status.
// It carries the listing name as read at publish time so consumers can log
// without querying the primary database.
type BookingEvent struct {
	Type        EventType `json:"type"`
	BookingID   string    `json:"booking_id"`
	ListingID   string    `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	UserID      string    `json:"user_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalPrice  string    `json:"total_price"`
	Status      string    `json:"status"`
	OccurredAt  string    `json:"occurred_at"`
}

// NewBookingEvent builds an event of type t from a stored booking.
func NewBookingEvent(t EventType, b model.BookingDetail, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        t,
		BookingID:   b.ID.String(),
		ListingID:   b.ListingID.String(),
		ListingName: b.ListingName,
		UserID:      b.UserID.String(),
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		TotalPrice:  b.TotalPrice.StringFixed(2),
		Status:      string(b.Status),
		OccurredAt:  at.UTC().Format(time.RFC3339),
	}
}
