package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-listings/internal/model"
)

// bookingDetailColumns selects a booking plus the current name and
// location of its listing.  Both are read through the join on every call.
const bookingDetailColumns = `b.booking_id, b.listing_id, b.user_id, b.start_date, b.end_date,
	b.total_price, b.status, b.created_at, l.name AS listing_name, l.location AS listing_location`

const bookingFrom = `bookings b JOIN listings l ON l.listing_id = b.listing_id`

// BookingFilter narrows List.  From/To select bookings whose stay overlaps
// the half-open range [From, To).
type BookingFilter struct {
	ListingID *uuid.UUID           // ListingID keeps bookings of one listing
	UserID    *uuid.UUID           // UserID keeps bookings made by one user
	Status    *model.BookingStatus // Status keeps bookings in one state
	From      *time.Time           // From is the inclusive start of the range
	To        *time.Time           // To is the exclusive end of the range
	Page      Page                 // Page selects the window
}

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sqlx.DB // db is the shared connection pool
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create inserts a booking.  An empty status is stored as pending.  The
// identifier is generated here; created_at comes from the database.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	const q = `INSERT INTO bookings (booking_id, listing_id, user_id, start_date, end_date, total_price, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, b.ID, b.ListingID, b.UserID, dateOnly(b.StartDate), dateOnly(b.EndDate), b.TotalPrice, b.Status); err != nil {
		return fmt.Errorf("BookingRepo.Create: %w", translate(err))
	}
	return nil
}

// GetByID fetches a booking with its listing name and location.  It
// returns ErrBookingNotFound if no row is found.  The listing columns are
// read through the join on every call, so a renamed listing shows up on
// its bookings immediately.
func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	q := `SELECT ` + bookingDetailColumns + ` FROM ` + bookingFrom + ` WHERE b.booking_id = ?`
	var b model.BookingDetail
	if err := r.db.GetContext(ctx, &b, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("BookingRepo.GetByID: %w", err)
	}
	return &b, nil
}

// List returns one page of bookings, newest first, and the total count.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.BookingDetail, int64, error) {
	var cond conditions
	if f.ListingID != nil {
		cond.add("b.listing_id = ?", *f.ListingID)
	}
	if f.UserID != nil {
		cond.add("b.user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		cond.add("b.status = ?", *f.Status)
	}
	if f.To != nil {
		cond.add("b.start_date < ?", dateOnly(*f.To))
	}
	if f.From != nil {
		cond.add("b.end_date > ?", dateOnly(*f.From))
	}
	out := []model.BookingDetail{}
	total, err := listPage(ctx, r.db, &out, bookingDetailColumns, bookingFrom, "b.created_at DESC", cond, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("BookingRepo.List: %w", err)
	}
	return out, total, nil
}

// Update writes every mutable column of b.  booking_id and created_at are
// never written.  Callers merge partial input onto the stored row and
// validate the result first; constraint failures still surface as a
// *ConstraintViolation.  The caller re-reads the row to get the joined
// listing fields.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET listing_id = ?, user_id = ?, start_date = ?, end_date = ?, total_price = ?, status = ?
	           WHERE booking_id = ?`
	res, err := r.db.ExecContext(ctx, q, b.ListingID, b.UserID, dateOnly(b.StartDate), dateOnly(b.EndDate), b.TotalPrice, b.Status, b.ID)
	if err != nil {
		return fmt.Errorf("BookingRepo.Update: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// SetStatus moves a booking to status to.  The current status is read
// under a row lock and must be one of from, otherwise ErrConflict is
// returned and nothing changes.
func (r *BookingRepo) SetStatus(ctx context.Context, id uuid.UUID, to model.BookingStatus, from ...model.BookingStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("BookingRepo.SetStatus: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current model.BookingStatus
	if err := tx.GetContext(ctx, &current, `SELECT status FROM bookings WHERE booking_id = ? FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("BookingRepo.SetStatus: %w", err)
	}
	if !slices.Contains(from, current) {
		return fmt.Errorf("booking is %s: %w", current, ErrConflict)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE booking_id = ?`, to, id); err != nil {
		return fmt.Errorf("BookingRepo.SetStatus: %w", translate(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("BookingRepo.SetStatus: commit: %w", err)
	}
	committed = true
	return nil
}

// Delete removes a single booking.
func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = ?`, id)
	if err != nil {
		return fmt.Errorf("BookingRepo.Delete: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// dateOnly formats a calendar date for a DATE column.
func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}
