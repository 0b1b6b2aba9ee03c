package repository

import (
	"context"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Page selects a window of a result ordered newest first.
type Page struct {
	Page     int // Page is 1-based
	PageSize int // PageSize is the number of rows per page
}

// Page limits.  MaxPage keeps the row offset within a signed 32-bit
// integer for every page size.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt32 / MaxPageSize
)

// Normalize clamps p into the accepted range.  A page past the last row
// yields an empty result, never an error.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Page) limitOffset() (int, int) {
	p = p.Normalize()
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// conditions accumulates a WHERE clause and its arguments.
type conditions struct {
	where []string
	args  []any
}

func (c *conditions) add(expr string, args ...any) {
	c.where = append(c.where, expr)
	c.args = append(c.args, args...)
}

func (c *conditions) clause() string {
	if len(c.where) == 0 {
		return "1=1"
	}
	return strings.Join(c.where, " AND ")
}

// listPage runs a COUNT(*) over from/where and then selects the requested
// page into dest.  selectCols and from are trusted SQL fragments.
func listPage(ctx context.Context, db sqlx.QueryerContext, dest any, selectCols, from, orderBy string, cond conditions, p Page) (int64, error) {
	var total int64
	if err := sqlx.GetContext(ctx, db, &total, "SELECT COUNT(*) FROM "+from+" WHERE "+cond.clause(), cond.args...); err != nil {
		return 0, err
	}
	limit, offset := p.limitOffset()
	q := "SELECT " + selectCols + " FROM " + from + " WHERE " + cond.clause() + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args := append(append([]any{}, cond.args...), limit, offset)
	if err := sqlx.SelectContext(ctx, db, dest, q, args...); err != nil {
		return 0, err
	}
	return total, nil
}
