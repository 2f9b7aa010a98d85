package servo

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the conditions the library itself reports. Wrapper
// error types carry the detail; callers match with errors.Is/errors.As.
var (
	// ErrUnknownAttribute is wrapped by *UnknownAttributeError when
	// construction input contains a key that was never declared.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInvalid is wrapped by *InvalidError when an error-form call finds
	// the unit's memoized validity false.
	ErrInvalid = errors.New("unit is invalid")

	// ErrFailed is wrapped by *FailureError when an error-form call finds a
	// valid unit with a non-empty error list after execution.
	ErrFailed = errors.New("unit failed")
)

// BaseAttribute is the attribute key used for errors that concern the unit
// as a whole rather than a single attribute, including Go errors returned
// by operation bodies.
const BaseAttribute = "base"

// Error is one entry in a unit's error list: which attribute it concerns,
// a message or rule symbol (for example "required" from a validation rule,
// or free text from business logic), and optional structured parameters
// such as the rule's threshold.
type Error struct {
	Attribute string
	Message   string
	Options   map[string]any
}

// Error implements the error interface as "attribute: message".
func (e *Error) Error() string {
	if e.Attribute == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Attribute, e.Message)
}

// clone returns a deep-enough copy for transfer between units.
func (e *Error) clone() *Error {
	c := &Error{Attribute: e.Attribute, Message: e.Message}
	if e.Options != nil {
		c.Options = make(map[string]any, len(e.Options))
		for k, v := range e.Options {
			c.Options[k] = v
		}
	}
	return c
}

// FormatFunc renders an error entry as a human-readable full message.
// The default implementation humanizes the common validation rule symbols;
// hosts with their own message catalogs plug in a replacement through
// WithFormatter.
type FormatFunc func(e *Error) string

// fullMessageTemplates maps well-known rule symbols to message templates.
// %s is substituted with the rule parameter when one was recorded.
var fullMessageTemplates = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"numeric":  "must be numeric",
	"alphanum": "must contain only letters and digits",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"len":      "must have length %s",
	"gt":       "must be greater than %s",
	"gte":      "must be at least %s",
	"lt":       "must be less than %s",
	"lte":      "must be at most %s",
	"oneof":    "must be one of %s",
}

// DefaultFullMessage is the FormatFunc used when no formatter is configured.
// Known rule symbols render as "<attribute> <humanized rule>"; anything else
// is treated as prose and rendered as "<attribute> <message>". Entries on
// BaseAttribute render without the attribute prefix.
func DefaultFullMessage(e *Error) string {
	msg := e.Message
	if tmpl, ok := fullMessageTemplates[e.Message]; ok {
		if strings.Contains(tmpl, "%s") {
			param, _ := e.Options["param"].(string)
			msg = fmt.Sprintf(tmpl, param)
		} else {
			msg = tmpl
		}
	}
	if e.Attribute == "" || e.Attribute == BaseAttribute {
		return msg
	}
	return fmt.Sprintf("%s %s", e.Attribute, msg)
}

// Errors is an ordered, mutable list of error entries. A unit exposes its
// list through Errors(); validation rules and business logic append to the
// same list, and callers may clear it. The list is live: it reflects every
// mutation immediately, independent of the unit's memoized validity.
type Errors struct {
	format  FormatFunc
	entries []*Error
}

// NewErrors returns an empty list using DefaultFullMessage formatting.
func NewErrors() *Errors {
	return &Errors{}
}

// Add appends an entry for the given attribute and message. It returns the
// list so additions chain.
func (es *Errors) Add(attribute, message string) *Errors {
	return es.AddEntry(&Error{Attribute: attribute, Message: message})
}

// AddEntry appends a fully built entry, preserving its options.
func (es *Errors) AddEntry(e *Error) *Errors {
	es.entries = append(es.entries, e)
	return es
}

// Clear removes every entry.
func (es *Errors) Clear() {
	es.entries = nil
}

// Len reports the number of entries.
func (es *Errors) Len() int {
	return len(es.entries)
}

// Empty reports whether the list has no entries.
func (es *Errors) Empty() bool {
	return len(es.entries) == 0
}

// Entries returns a copy of the entry slice in insertion order. The entries
// themselves are shared; treat them as read-only.
func (es *Errors) Entries() []*Error {
	out := make([]*Error, len(es.entries))
	copy(out, es.entries)
	return out
}

// On returns the entries recorded for one attribute, in insertion order.
func (es *Errors) On(attribute string) []*Error {
	var out []*Error
	for _, e := range es.entries {
		if e.Attribute == attribute {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns each entry in its compact "attribute: message" form.
func (es *Errors) Messages() []string {
	out := make([]string, len(es.entries))
	for i, e := range es.entries {
		out[i] = e.Error()
	}
	return out
}

// FullMessages returns each entry rendered by the configured formatter.
func (es *Errors) FullMessages() []string {
	f := es.format
	if f == nil {
		f = DefaultFullMessage
	}
	out := make([]string, len(es.entries))
	for i, e := range es.entries {
		out[i] = f(e)
	}
	return out
}

// UnknownAttributeError reports a construction-time input key that is not in
// the unit type's declared registry. Construction is strict: the whole
// instance is rejected, regardless of how many valid keys were supplied.
type UnknownAttributeError struct {
	Unit      string
	Attribute string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Unit, ErrUnknownAttribute, e.Attribute)
}

// Unwrap supports errors.Is(err, ErrUnknownAttribute).
func (e *UnknownAttributeError) Unwrap() error {
	return ErrUnknownAttribute
}

// InvalidError is returned by error-form calls when the unit's memoized
// validity is false. It carries the unit and the full messages formatted at
// the moment the call observed the state.
type InvalidError struct {
	Unit     *Unit
	Messages []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s is invalid: %s", e.Unit.name(), strings.Join(e.Messages, "; "))
}

// Unwrap supports errors.Is(err, ErrInvalid).
func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// FailureError is returned by error-form calls when the unit validated clean
// but its error list was non-empty once execution finished.
type FailureError struct {
	Unit     *Unit
	Messages []string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Unit.name(), strings.Join(e.Messages, "; "))
}

// Unwrap supports errors.Is(err, ErrFailed).
func (e *FailureError) Unwrap() error {
	return ErrFailed
}
