package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-listings/internal/model"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var listingCols = []string{"listing_id", "host_id", "name", "description", "location", "price_per_night", "created_at", "updated_at"}

func listingRow(id, host uuid.UUID, name string) *sqlmock.Rows {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(listingCols).AddRow(id.String(), host.String(), name, "desc", "Lisbon", "120.00", now, now)
}

func TestListingCreateReloads(t *testing.T) {
	db, mock := newMock(t)
	repo := NewListingRepo(db)
	host := uuid.New()

	mock.ExpectExec(`INSERT INTO listings`).
		WithArgs(sqlmock.AnyArg(), host.String(), "Loft", "desc", "Lisbon", "120").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM listings WHERE listing_id = \?`).
		WillReturnRows(listingRow(uuid.New(), host, "Loft"))

	l := &model.Listing{HostID: host, Name: "Loft", Description: "desc", Location: "Lisbon", PricePerNight: decimal.RequireFromString("120")}
	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, "Loft", l.Name)
	assert.Equal(t, "120.00", l.PricePerNight.StringFixed(2))
	assert.False(t, l.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM listings WHERE listing_id = \?`).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := NewListingRepo(db).GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListingDeleteCascades(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM listings WHERE listing_id = \? FOR UPDATE`).
		WithArgs(id.String()).
		WillReturnRows(listingRow(id, uuid.New(), "Loft"))
	mock.ExpectExec(`DELETE FROM reviews WHERE listing_id = \?`).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM bookings WHERE listing_id = \?`).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM listings WHERE listing_id = \?`).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := NewListingRepo(db).Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, DeleteResult{Bookings: 3, Reviews: 2}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingDeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(listingRow(id, uuid.New(), "Loft"))
	mock.ExpectExec(`DELETE FROM reviews`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bookings`).WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := NewListingRepo(db).Delete(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingDeleteMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := NewListingRepo(db).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingListBuildsFilter(t *testing.T) {
	db, mock := newMock(t)
	host := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM listings WHERE host_id = \? AND location = \?`).
		WithArgs(host.String(), "Porto").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs(host.String(), "Porto", 20, 20).
		WillReturnRows(listingRow(uuid.New(), host, "Loft"))

	out, total, err := NewListingRepo(db).List(context.Background(), ListingFilter{
		HostID: &host, Location: "Porto", Page: Page{Page: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 41, total)
	assert.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByIDReadsListingThroughJoin(t *testing.T) {
	db, mock := newMock(t)
	id, listing := uuid.New(), uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"booking_id", "listing_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "listing_name", "listing_location"}).
		AddRow(id.String(), listing.String(), uuid.NewString(), start, start.AddDate(0, 0, 3), "360.00", "pending", start, "Loft", "Lisbon")
	mock.ExpectQuery(`FROM bookings b JOIN listings l ON l.listing_id = b.listing_id WHERE b.booking_id = \?`).
		WithArgs(id.String()).
		WillReturnRows(rows)

	b, err := NewBookingRepo(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, listing, b.ListingID)
	assert.Equal(t, "Loft", b.ListingName)
	assert.Equal(t, "Lisbon", b.ListingLocation)
	assert.Equal(t, model.StatusPending, b.Status)
}

func TestBookingCreateDefaultsToPending(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b := &model.Booking{ListingID: uuid.New(), UserID: uuid.New(), StartDate: start, EndDate: start.AddDate(0, 0, 2), TotalPrice: decimal.RequireFromString("200")}

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), b.ListingID.String(), b.UserID.String(), "2024-06-01", "2024-06-03", "200", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewBookingRepo(db).Create(context.Background(), b))
	assert.Equal(t, model.StatusPending, b.Status)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSetStatus(t *testing.T) {
	t.Run("allowed transition", func(t *testing.T) {
		db, mock := newMock(t)
		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings WHERE booking_id = \? FOR UPDATE`).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectExec(`UPDATE bookings SET status = \?`).
			WithArgs("confirmed", id.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewBookingRepo(db).SetStatus(context.Background(), id, model.StatusConfirmed, model.StatusPending)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict leaves row untouched", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("canceled"))
		mock.ExpectRollback()

		err := NewBookingRepo(db).SetStatus(context.Background(), uuid.New(), model.StatusConfirmed, model.StatusPending)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Contains(t, err.Error(), "canceled")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings`).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := NewBookingRepo(db).SetStatus(context.Background(), uuid.New(), model.StatusCanceled, model.StatusPending, model.StatusConfirmed)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestReviewCreateCheckViolation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&mysql.MySQLError{Number: 3819, Message: "Check constraint 'rating_range' is violated."})

	err := NewReviewRepo(db).Create(context.Background(), &model.Review{ListingID: uuid.New(), UserID: uuid.New(), Rating: 9})
	var cv *ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, "check", cv.Constraint)
}

func TestReviewDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM reviews WHERE review_id = \?`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewReviewRepo(db).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		number uint16
		want   string
	}{
		{1062, "duplicate"},
		{1451, "foreign_key"},
		{1452, "foreign_key"},
		{3819, "check"},
		{1265, "invalid_value"},
		{1366, "invalid_value"},
	}
	for _, tc := range cases {
		var cv *ConstraintViolation
		require.ErrorAs(t, translate(&mysql.MySQLError{Number: tc.number}), &cv)
		assert.Equal(t, tc.want, cv.Constraint)
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, translate(plain))
	assert.NotErrorAs(t, translate(&mysql.MySQLError{Number: 1213}), new(*ConstraintViolation))
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PageSize: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Page: 3, PageSize: MaxPageSize}, Page{Page: 3, PageSize: 1000}.Normalize())
	limit, offset := Page{Page: 3, PageSize: 10}.limitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	assert.Equal(t, MaxPage, Page{Page: math.MaxInt, PageSize: 100}.Normalize().Page)
	limit, offset = Page{Page: math.MaxInt, PageSize: 100}.limitOffset()
	assert.Equal(t, 100, limit)
	assert.Equal(t, (MaxPage-1)*100, offset)
	assert.LessOrEqual(t, offset, math.MaxInt32)
}

func TestListingListPastLastPageIsEmpty(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM listings WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs(DefaultPageSize, (MaxPage-1)*DefaultPageSize).
		WillReturnRows(sqlmock.NewRows(listingCols))

	out, total, err := NewListingRepo(db).List(context.Background(), ListingFilter{
		Page: Page{Page: math.MaxInt},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
