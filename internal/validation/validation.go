// Package validation holds the per-entity rule lists that a candidate must
// pass before anything is written.  Rules are pure functions.  Field rules
// run first and report at most one message per field; object rules, which
// compare several fields, only run once every field rule has passed.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NonFieldErrors is the field name used for cross-field failures.
const NonFieldErrors = "non_field_errors"

// Messages shared by several rules.
const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
)

// Error is a rejected candidate.  Field names the offending wire field,
// or NonFieldErrors when the failure spans several fields.
type Error struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewError builds a field-scoped validation error.
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Errors is the set of failures of one candidate, in rule order.
type Errors []*Error

// Error implements the error interface.
func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Field returns the failure recorded for field, or nil.
func (es Errors) Field(field string) *Error {
	for _, e := range es {
		if e.Field == field {
			return e
		}
	}
	return nil
}

// Messages groups the messages by field, the shape written to clients.
func (es Errors) Messages() map[string][]string {
	out := make(map[string][]string, len(es))
	for _, e := range es {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Reject returns a single-field rejection.
func Reject(field, message string) error {
	return Errors{NewError(field, message)}
}

// AsErrors extracts the validation failures carried by err.
func AsErrors(err error) (Errors, bool) {
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	var e *Error
	if errors.As(err, &e) {
		return Errors{e}, true
	}
	return nil, false
}

// Mode selects whether missing fields are acceptable.
type Mode int

const (
	// Full requires every writable field (create, full update).
	Full Mode = iota
	// Partial checks only the supplied fields (PATCH bodies).
	Partial
)

// Rule inspects a candidate and returns nil when it passes.
type Rule[T any] func(c T, mode Mode) *Error

// ruleSet is the ordered validation of one entity.
type ruleSet[T any] struct {
	fields  []Rule[T]
	objects []Rule[T]
}

func (rs ruleSet[T]) run(c T, mode Mode) error {
	var errs Errors
	seen := make(map[string]bool)
	for _, rule := range rs.fields {
		if e := rule(c, mode); e != nil && !seen[e.Field] {
			seen[e.Field] = true
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	for _, rule := range rs.objects {
		if e := rule(c, mode); e != nil {
			return Errors{e}
		}
	}
	return nil
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// shape runs the struct tags of a candidate and converts the first tag
// failure into a field-scoped Error.  fieldNames maps Go field names to
// wire names.
func shape[T any](fieldNames map[string]string) Rule[T] {
	return func(c T, _ Mode) *Error {
		err := structValidator.Struct(c)
		if err == nil {
			return nil
		}
		var fes validator.ValidationErrors
		if !errors.As(err, &fes) || len(fes) == 0 {
			return NewError(NonFieldErrors, err.Error())
		}
		fe := fes[0]
		name := fieldNames[fe.StructField()]
		if name == "" {
			name = strings.ToLower(fe.StructField())
		}
		switch fe.Tag() {
		case "max":
			return NewError(name, fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param()))
		case "oneof":
			return NewError(name, fmt.Sprintf("%q is not a valid choice.", display(fe.Value())))
		}
		return NewError(name, fmt.Sprintf("failed on the %q rule", fe.Tag()))
	}
}

// display renders a field value, following pointers.
func display(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

// Money column limits: DECIMAL(10,2).
const (
	moneyMaxDigits = 10
	moneyPlaces    = 2
)

// checkMoney verifies that d fits the money columns.  Digits are counted on
// the coefficient and exponent, so d is never rescaled.
func checkMoney(field string, d *decimal.Decimal) *Error {
	if d == nil || d.IsZero() {
		return nil
	}
	coef := strings.TrimPrefix(d.Coefficient().String(), "-")
	sig := strings.TrimRight(coef, "0")
	exp := int64(d.Exponent()) + int64(len(coef)-len(sig))
	if -exp > moneyPlaces {
		return NewError(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", moneyPlaces))
	}
	if int64(len(sig))+exp > moneyMaxDigits-moneyPlaces {
		return NewError(field, fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", moneyMaxDigits-moneyPlaces))
	}
	return nil
}

// requiredString rejects a missing value in Full mode and a blank value in
// any mode.
func requiredString(field string, v *string, mode Mode) *Error {
	if v == nil {
		if mode == Full {
			return NewError(field, MsgRequired)
		}
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return NewError(field, MsgBlank)
	}
	return nil
}

// required rejects a missing value in Full mode.
func required(field string, present bool, mode Mode) *Error {
	if !present && mode == Full {
		return NewError(field, MsgRequired)
	}
	return nil
}
