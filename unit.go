package servo

import (
	"fmt"
	"log/slog"
)

// validity is the memoized outcome of the one-shot validation pass.
type validity int

const (
	validityUnknown validity = iota
	validityValid
	validityInvalid
)

// ErrorReporter is anything exposing a live error list. Both *Unit and
// foreign result types can feed AddErrorsFrom through it.
type ErrorReporter interface {
	Errors() *Errors
}

// Unit is one live instance of a declared unit type: its attribute values,
// its memoized validity, its mutable error list and its captured result.
//
// A Unit is not safe for concurrent use; share the definition, not the
// instance.
type Unit struct {
	schema *Schema
	svc    *Service
	values map[string]any
	errs   *Errors
	state  validity
	value  any

	captureSet bool
	capture    bool

	logger *slog.Logger
}

var _ ErrorReporter = (*Unit)(nil)

func (u *Unit) name() string {
	return u.schema.name
}

// Get returns the current value of a declared attribute, nil when unset.
// Reading an undeclared attribute is a programming error and panics.
func (u *Unit) Get(name string) any {
	u.mustDeclared(name)
	return u.values[name]
}

// Set assigns a declared attribute. Writing an undeclared attribute is a
// programming error and panics. Returns the unit so writes chain.
func (u *Unit) Set(name string, v any) *Unit {
	u.mustDeclared(name)
	u.values[name] = v
	return u
}

func (u *Unit) mustDeclared(name string) {
	if _, ok := u.schema.index[name]; !ok {
		panic(fmt.Sprintf("servo: undeclared attribute %q on %s", name, u.name()))
	}
}

// String returns the attribute as a string, or "" when unset or not a
// string.
func (u *Unit) String(name string) string {
	s, _ := u.Get(name).(string)
	return s
}

// Int returns the attribute as an int. JSON-decoded numbers arrive as
// float64 and convert; anything else yields 0.
func (u *Unit) Int(name string) int {
	switch v := u.Get(name).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool returns the attribute as a bool, or false when unset or not a bool.
func (u *Unit) Bool(name string) bool {
	b, _ := u.Get(name).(bool)
	return b
}

// Attributes returns a fresh snapshot of every declared attribute and its
// current value. Mutating the snapshot does not touch the unit.
func (u *Unit) Attributes() Attrs {
	out := make(Attrs, len(u.schema.names))
	for _, n := range u.schema.names {
		out[n] = u.values[n]
	}
	return out
}

// Valid runs the declared validation rules exactly once per lifecycle and
// memoizes the outcome. Rule violations found by that single pass append to
// the error list; later mutations of the list do not change the memoized
// answer. Reset starts a new lifecycle.
func (u *Unit) Valid() bool {
	if u.state == validityUnknown {
		entries := u.schema.validator.Validate(u.values, u.schema.rules)
		for _, e := range entries {
			u.errs.AddEntry(e)
		}
		if len(entries) == 0 {
			u.state = validityValid
		} else {
			u.state = validityInvalid
		}
		u.logger.Debug("unit validated",
			"valid", u.state == validityValid,
			"rule_errors", len(entries))
	}
	return u.state == validityValid
}

// Invalid is the negation of Valid.
func (u *Unit) Invalid() bool {
	return !u.Valid()
}

// Succeeded reports whether the unit validated clean and its error list is
// empty right now. The validity half is memoized; the error-list half is
// live, so appending an error after a clean validation flips Succeeded to
// false while Valid stays true.
func (u *Unit) Succeeded() bool {
	return u.Valid() && u.errs.Empty()
}

// Failed is the negation of Succeeded.
func (u *Unit) Failed() bool {
	return !u.Succeeded()
}

// Errors returns the unit's live error list. Mutations through the returned
// list are visible to Succeeded, Err and every other reader immediately.
func (u *Unit) Errors() *Errors {
	return u.errs
}

// Value returns the captured result of the last successful call, nil before
// any call or after Reset.
func (u *Unit) Value() any {
	return u.value
}

// SetValue stores a result directly, bypassing capture policy.
func (u *Unit) SetValue(v any) *Unit {
	u.value = v
	return u
}

// SetCaptureResult overrides, for this instance only, whether call results
// are captured into Value. The override survives Reset.
func (u *Unit) SetCaptureResult(on bool) *Unit {
	u.captureSet = true
	u.capture = on
	return u
}

// captureResult resolves the effective capture policy: instance override
// first, then the owning service's default, then on.
func (u *Unit) captureResult() bool {
	if u.captureSet {
		return u.capture
	}
	if u.svc != nil {
		return u.svc.capture
	}
	return true
}

// Reset returns the unit to a fresh lifecycle: errors cleared, validity
// unknown again (the next Valid re-runs the rules), captured value dropped.
// Attribute values and the capture override stay.
func (u *Unit) Reset() *Unit {
	u.errs.Clear()
	u.state = validityUnknown
	u.value = nil
	u.logger.Debug("unit reset")
	return u
}

// Err reports the unit's state as an error: an *InvalidError when validation
// failed, a *FailureError when validation passed but the error list is
// non-empty, nil when the unit succeeded. Messages are snapshotted through
// the configured formatter at the moment of the call.
func (u *Unit) Err() error {
	if !u.Valid() {
		return &InvalidError{Unit: u, Messages: u.errs.FullMessages()}
	}
	if !u.errs.Empty() {
		return &FailureError{Unit: u, Messages: u.errs.FullMessages()}
	}
	return nil
}

// AddErrorsFrom merges another reporter's errors into this unit's list. With
// fullMessages true each entry arrives as its formatted full message under
// key (BaseAttribute when key is empty); with fullMessages false the entries
// are copied raw, re-keyed to key when key is non-empty. Returns the unit so
// merges chain.
func (u *Unit) AddErrorsFrom(other ErrorReporter, key string, fullMessages bool) *Unit {
	src := other.Errors()
	if fullMessages {
		attr := key
		if attr == "" {
			attr = BaseAttribute
		}
		for _, msg := range src.FullMessages() {
			u.errs.Add(attr, msg)
		}
		return u
	}
	for _, e := range src.Entries() {
		c := e.clone()
		if key != "" {
			c.Attribute = key
		}
		u.errs.AddEntry(c)
	}
	return u
}
