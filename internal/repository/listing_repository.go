// Package repository contains data access logic separated from HTTP handlers.
// This file holds the listing repository: CRUD, filtered lookups and the
// transactional cascade delete that removes a listing with its bookings
// and reviews.
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

const listingColumns = `listing_id, host_id, name, description, location, price_per_night, created_at, updated_at`

// ListingFilter narrows List.  Zero fields are not applied, so the zero
// value lists every listing, one default-sized page at a time.
type ListingFilter struct {
	HostID   *uuid.UUID // HostID keeps only listings of this host
	Location string     // Location is matched exactly, not as a substring
	Page     Page       // Page selects the window; it is normalized before use
}

// DeleteResult reports how many dependent rows a cascade removed.
type DeleteResult struct {
	Bookings int64 // Bookings is the number of booking rows removed
	Reviews  int64 // Reviews is the number of review rows removed
}

// ListingRepo encapsulates all database queries related to listings.  It
// depends on a sqlx.DB handle which should be configured elsewhere.
type ListingRepo struct {
	db *sqlx.DB // db is the shared connection pool
}

// NewListingRepo constructs a ListingRepo with the provided DB handle.  The
// same handle is shared with the booking and review repositories; nothing
// else is initialized here.
func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Create inserts a new listing.  The identifier is generated here and the
// row is read back so the caller receives the database timestamps.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	l.ID = uuid.New()
	const q = `INSERT INTO listings (listing_id, host_id, name, description, location, price_per_night)
	           VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, l.ID, l.HostID, l.Name, l.Description, l.Location, l.PricePerNight); err != nil {
		return fmt.Errorf("ListingRepo.Create: %w", translate(err))
	}
	stored, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("ListingRepo.Create: reload: %w", err)
	}
	*l = *stored
	return nil
}

// GetByID fetches a listing by its identifier.  It returns
// ErrListingNotFound if no row is found.
func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return getListing(ctx, r.db, id, false)
}

func getListing(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, forUpdate bool) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE listing_id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var l model.Listing
	if err := sqlx.GetContext(ctx, q, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("ListingRepo.GetByID: %w", err)
	}
	return &l, nil
}

// Exists reports whether a listing with the identifier is stored.  The
// booking and review services call it before inserting a dependent row so
// that a dangling reference is reported as a field error rather than a
// foreign key failure.
func (r *ListingRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings WHERE listing_id = ?`, id); err != nil {
		return false, fmt.Errorf("ListingRepo.Exists: %w", err)
	}
	return n > 0, nil
}

// List returns one page of listings, newest first, and the total number of
// rows matching the filter.  The total ignores paging so callers can work
// out how many pages exist.  An empty page is a nil error with an empty,
// non-nil slice.
func (r *ListingRepo) List(ctx context.Context, f ListingFilter) ([]model.Listing, int64, error) {
	var cond conditions
	if f.HostID != nil {
		cond.add("host_id = ?", *f.HostID)
	}
	if f.Location != "" {
		cond.add("location = ?", f.Location)
	}
	out := []model.Listing{}
	total, err := listPage(ctx, r.db, &out, listingColumns, "listings", "created_at DESC", cond, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("ListingRepo.List: %w", err)
	}
	return out, total, nil
}

// Update writes every mutable column of l and refreshes updated_at.  The
// identifier and created_at are never written.  On success l is reloaded.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	const q = `UPDATE listings
	           SET host_id = ?, name = ?, description = ?, location = ?, price_per_night = ?,
	               updated_at = CURRENT_TIMESTAMP(6)
	           WHERE listing_id = ?`
	res, err := r.db.ExecContext(ctx, q, l.HostID, l.Name, l.Description, l.Location, l.PricePerNight, l.ID)
	if err != nil {
		return fmt.Errorf("ListingRepo.Update: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrListingNotFound
	}
	stored, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("ListingRepo.Update: reload: %w", err)
	}
	*l = *stored
	return nil
}

// Delete removes a listing and all dependent records (reviews and
// bookings).  The listing row is locked first so no dependent can be
// inserted concurrently, and everything happens in one transaction: either
// the listing and all of its dependents are gone or nothing changed.  The
// foreign keys cascade as well; deleting the dependents explicitly keeps
// the counts observable.
func (r *ListingRepo) Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	var res DeleteResult
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("ListingRepo.Delete: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := getListing(ctx, tx, id, true); err != nil {
		return res, err
	}
	out, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE listing_id = ?`, id)
	if err != nil {
		return res, fmt.Errorf("ListingRepo.Delete: reviews: %w", translate(err))
	}
	res.Reviews, _ = out.RowsAffected()

	out, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE listing_id = ?`, id)
	if err != nil {
		return res, fmt.Errorf("ListingRepo.Delete: bookings: %w", translate(err))
	}
	res.Bookings, _ = out.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE listing_id = ?`, id); err != nil {
		return res, fmt.Errorf("ListingRepo.Delete: listing: %w", translate(err))
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("ListingRepo.Delete: commit: %w", err)
	}
	committed = true
	return res, nil
}

// DeleteAll removes every listing together with all bookings and reviews.
// It is used by the seed command before inserting sample rows.
func (r *ListingRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ListingRepo.DeleteAll: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, q := range []string{`DELETE FROM reviews`, `DELETE FROM bookings`, `DELETE FROM listings`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ListingRepo.DeleteAll: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ListingRepo.DeleteAll: commit: %w", err)
	}
	committed = true
	return nil
}
