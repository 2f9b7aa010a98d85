package servo

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Operation is a named behavior registered on a Service. It receives the
// unit it runs against and any call-site arguments. Returning a non-nil
// error marks the unit failed; returning a value stores it per the capture
// policy.
type Operation func(ctx context.Context, u *Unit, args ...any) (any, error)

// Callback receives the result a body yields mid-flight and returns the
// value to use in its place.
type Callback func(v any) any

// Service is a unit type with operations: a schema plus a registry of named
// behaviors. Define it once at package init, then share it; definition
// methods are not safe to interleave with concurrent use.
type Service struct {
	schema  *Schema
	ops     map[string]Operation
	opNames []string
	capture bool
}

// NewService creates a service with an empty schema and operation registry.
// Result capture defaults to on.
func NewService(name string, opts ...Option) *Service {
	return &Service{
		schema:  NewSchema(name, opts...),
		ops:     make(map[string]Operation),
		capture: true,
	}
}

// Name returns the unit type name.
func (s *Service) Name() string {
	return s.schema.name
}

// Schema exposes the underlying schema.
func (s *Service) Schema() *Schema {
	return s.schema
}

// Declare registers attribute names. See Schema.Declare.
func (s *Service) Declare(names ...string) *Service {
	s.schema.Declare(names...)
	return s
}

// Validates attaches a validation tag to a declared attribute. See
// Schema.Validates.
func (s *Service) Validates(attribute, tag string) *Service {
	s.schema.Validates(attribute, tag)
	return s
}

// DefineOperation registers a named operation. Registering a name again
// replaces the earlier body; the override wins for every unit built
// afterwards and for existing units alike, since dispatch happens at call
// time.
func (s *Service) DefineOperation(name string, op Operation) *Service {
	if _, exists := s.ops[name]; !exists {
		s.opNames = append(s.opNames, name)
	}
	s.ops[name] = op
	return s
}

// DefineOperations registers several operations at once, in sorted name
// order.
func (s *Service) DefineOperations(ops map[string]Operation) *Service {
	names := make([]string, 0, len(ops))
	for n := range ops {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		s.DefineOperation(n, ops[n])
	}
	return s
}

// CaptureResult sets the type-level default for storing call results into
// Value. Instances override it with SetCaptureResult.
func (s *Service) CaptureResult(on bool) *Service {
	s.capture = on
	return s
}

// OperationNames returns the registered operation names in registration
// order.
func (s *Service) OperationNames() []string {
	out := make([]string, len(s.opNames))
	copy(out, s.opNames)
	return out
}

// New builds a unit bound to this service's operations. See Schema.New for
// input rules.
func (s *Service) New(input Attrs) (*Unit, error) {
	return s.schema.newUnit(s, input)
}

// MustNew is New, panicking on error.
func (s *Service) MustNew(input Attrs) *Unit {
	u, err := s.New(input)
	if err != nil {
		panic(err)
	}
	return u
}

// NewFrom builds a unit from a struct or map. See Schema.NewFrom.
func (s *Service) NewFrom(v any) (*Unit, error) {
	u, err := s.schema.NewFrom(v)
	if err != nil {
		return nil, err
	}
	u.svc = s
	return u, nil
}

// Call runs a registered operation against the unit and returns the unit
// for inspection. The sequence: validate (memoized), skip the body when
// invalid, otherwise run it; a non-nil error from the body lands in the
// error list (at its own attribute when the body returned an *Error, under
// BaseAttribute otherwise) and suppresses capture; a clean return stores
// the result per the capture policy.
//
// Calling an unregistered operation, or any operation on a unit built from
// a bare Schema, is a programming error and panics.
func (u *Unit) Call(ctx context.Context, name string, args ...any) *Unit {
	if u.svc == nil {
		panic(fmt.Sprintf("servo: %s has no operations, built from a bare schema", u.name()))
	}
	op, ok := u.svc.ops[name]
	if !ok {
		panic(fmt.Sprintf("servo: unknown operation %q on %s", name, u.name()))
	}
	if !u.Valid() {
		u.logger.Debug("operation skipped", "operation", name, "reason", "invalid")
		return u
	}
	result, err := op(ctx, u, args...)
	if err != nil {
		var entry *Error
		if errors.As(err, &entry) {
			u.errs.AddEntry(entry)
		} else {
			u.errs.Add(BaseAttribute, err.Error())
		}
		u.logger.Debug("operation failed", "operation", name, "error", err)
		return u
	}
	if u.captureResult() {
		u.value = result
	}
	u.logger.Debug("operation completed", "operation", name)
	return u
}

// CallE is the error-form of Call: it runs the operation, then folds the
// unit's state into a single return. An invalid unit yields an
// *InvalidError, a failed one a *FailureError, a successful one the
// captured value (nil when capture is off).
func (u *Unit) CallE(ctx context.Context, name string, args ...any) (any, error) {
	u.Call(ctx, name, args...)
	if err := u.Err(); err != nil {
		return nil, err
	}
	return u.value, nil
}
