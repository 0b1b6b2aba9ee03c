// Package serializer converts entities to their wire representation and
// parses wire objects back into candidates.  Parsing reports type errors as
// field-scoped validation errors; range and cross-field checks are left to
// the validation package.
package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/travel-listings/internal/model"
	"github.com/iliyamo/travel-listings/internal/validation"
)

// ErrMalformed is returned when the body is not a JSON object.
var ErrMalformed = errors.New("malformed request body")

// Wire formats.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.999999Z07:00"
)

// Type error messages.
const (
	msgNull    = "This field may not be null."
	msgString  = "Not a valid string."
	msgUUID    = "Must be a valid UUID."
	msgNumber  = "A valid number is required."
	msgInteger = "A valid integer is required."
	msgDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// fieldDecoder pulls typed values out of a decoded JSON object and
// collects one error per failing key.
type fieldDecoder struct {
	raw  map[string]json.RawMessage
	errs validation.Errors
}

func newFieldDecoder(body []byte) (*fieldDecoder, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, ErrMalformed
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &fieldDecoder{raw: raw}, nil
}

func (d *fieldDecoder) fail(key, msg string) {
	d.errs = append(d.errs, validation.NewError(key, msg))
}

// lookup returns the raw value for key; ok is false when the key is absent
// or was rejected as null.
func (d *fieldDecoder) lookup(key string) (json.RawMessage, bool) {
	v, present := d.raw[key]
	if !present {
		return nil, false
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		d.fail(key, msgNull)
		return nil, false
	}
	return v, true
}

func (d *fieldDecoder) text(key string) *string {
	v, ok := d.lookup(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.fail(key, msgString)
		return nil
	}
	return &s
}

func (d *fieldDecoder) uuid(key string) *uuid.UUID {
	v, ok := d.lookup(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.fail(key, msgUUID)
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		d.fail(key, msgUUID)
		return nil
	}
	return &id
}

// Numeric input limits.  Longer literals and exponents beyond the bound
// are rejected before any arithmetic is done on the value.
const (
	maxNumberLen   = 40
	maxNumberScale = 20
	maxInteger     = math.MaxInt32
)

// parseDecimal parses a bounded decimal literal.
func parseDecimal(s string) (decimal.Decimal, bool) {
	if s == "" || len(s) > maxNumberLen {
		return decimal.Decimal{}, false
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := n.Exponent(); exp < -maxNumberScale || exp > maxNumberScale {
		return decimal.Decimal{}, false
	}
	return n, true
}

// numeric returns the literal text of a JSON number or of a string
// holding one.
func (d *fieldDecoder) numeric(key, msg string) (string, bool) {
	v, ok := d.lookup(key)
	if !ok {
		return "", false
	}
	s := string(bytes.TrimSpace(v))
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(v, &s); err != nil {
			d.fail(key, msg)
			return "", false
		}
	}
	return s, true
}

// number accepts a JSON number or a string holding one.
func (d *fieldDecoder) number(key string) *decimal.Decimal {
	s, ok := d.numeric(key, msgNumber)
	if !ok {
		return nil
	}
	n, ok := parseDecimal(s)
	if !ok {
		d.fail(key, msgNumber)
		return nil
	}
	return &n
}

// integer accepts a JSON number or string holding a whole number whose
// magnitude fits in 32 bits.
func (d *fieldDecoder) integer(key string) *int {
	s, ok := d.numeric(key, msgInteger)
	if !ok {
		return nil
	}
	n, ok := parseDecimal(s)
	if !ok || !n.IsInteger() || n.Abs().GreaterThan(decimal.NewFromInt(maxInteger)) {
		d.fail(key, msgInteger)
		return nil
	}
	i := int(n.IntPart())
	return &i
}

func (d *fieldDecoder) date(key string) *time.Time {
	v, ok := d.lookup(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		d.fail(key, msgDate)
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		d.fail(key, msgDate)
		return nil
	}
	return &t
}

func (d *fieldDecoder) status(key string) *model.BookingStatus {
	s := d.text(key)
	if s == nil {
		return nil
	}
	st := model.BookingStatus(*s)
	if !st.Valid() {
		d.fail(key, fmt.Sprintf("%q is not a valid choice.", *s))
		return nil
	}
	return &st
}

// err returns the collected type errors, or nil.
func (d *fieldDecoder) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	return d.errs
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
