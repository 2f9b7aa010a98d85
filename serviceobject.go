package servo

import (
	"context"
	"fmt"
)

// performOperation is the single operation a ServiceObject exposes.
const performOperation = "perform"

// PerformFunc is the body of a service object. yield is the call-site
// callback, nil when the caller passed none; a body that supports yielding
// passes its provisional result through yield and uses the returned value.
type PerformFunc func(ctx context.Context, u *Unit, yield Callback) (any, error)

// ServiceObject is the single-operation specialization of Service: one
// declared body named "perform", reached through Call and CallE directly
// instead of by operation name. Defining additional operations is not part
// of its surface.
type ServiceObject struct {
	svc *Service
}

// Callable is the calling convention a ServiceObject satisfies: build a
// unit from input and run its body in one step.
type Callable interface {
	Call(ctx context.Context, input Attrs, yield Callback) (*ServiceObjectUnit, error)
	CallE(ctx context.Context, input Attrs, yield Callback) (any, error)
}

var _ Callable = (*ServiceObject)(nil)

// NewServiceObject creates a service object whose body is not yet
// implemented. Calling it before Perform is a programming error and panics.
func NewServiceObject(name string, opts ...Option) *ServiceObject {
	so := &ServiceObject{svc: NewService(name, opts...)}
	so.svc.DefineOperation(performOperation, func(context.Context, *Unit, ...any) (any, error) {
		panic(fmt.Sprintf("servo: perform is not implemented for %s", name))
	})
	return so
}

// Name returns the unit type name.
func (so *ServiceObject) Name() string {
	return so.svc.Name()
}

// Schema exposes the underlying schema.
func (so *ServiceObject) Schema() *Schema {
	return so.svc.schema
}

// Declare registers attribute names. See Schema.Declare.
func (so *ServiceObject) Declare(names ...string) *ServiceObject {
	so.svc.Declare(names...)
	return so
}

// Validates attaches a validation tag to a declared attribute. See
// Schema.Validates.
func (so *ServiceObject) Validates(attribute, tag string) *ServiceObject {
	so.svc.Validates(attribute, tag)
	return so
}

// CaptureResult sets the type-level default for storing results into Value.
func (so *ServiceObject) CaptureResult(on bool) *ServiceObject {
	so.svc.CaptureResult(on)
	return so
}

// Perform sets the body. Setting it again replaces the earlier body.
func (so *ServiceObject) Perform(fn PerformFunc) *ServiceObject {
	so.svc.DefineOperation(performOperation, func(ctx context.Context, u *Unit, args ...any) (any, error) {
		var yield Callback
		if len(args) > 0 {
			yield, _ = args[0].(Callback)
		}
		return fn(ctx, u, yield)
	})
	return so
}

// New builds an instance. See Schema.New for input rules.
func (so *ServiceObject) New(input Attrs) (*ServiceObjectUnit, error) {
	u, err := so.svc.New(input)
	if err != nil {
		return nil, err
	}
	return &ServiceObjectUnit{Unit: u}, nil
}

// MustNew is New, panicking on error.
func (so *ServiceObject) MustNew(input Attrs) *ServiceObjectUnit {
	u, err := so.New(input)
	if err != nil {
		panic(err)
	}
	return u
}

// NewFrom builds an instance from a struct or map. See Schema.NewFrom.
func (so *ServiceObject) NewFrom(v any) (*ServiceObjectUnit, error) {
	u, err := so.svc.NewFrom(v)
	if err != nil {
		return nil, err
	}
	return &ServiceObjectUnit{Unit: u}, nil
}

// Call builds an instance from input and runs its body, returning the unit
// for inspection. Construction errors surface before anything runs.
func (so *ServiceObject) Call(ctx context.Context, input Attrs, yield Callback) (*ServiceObjectUnit, error) {
	u, err := so.New(input)
	if err != nil {
		return nil, err
	}
	return u.Call(ctx, yield), nil
}

// CallE builds an instance from input and runs its body in error form: the
// captured value on success, an *UnknownAttributeError, *InvalidError or
// *FailureError otherwise.
func (so *ServiceObject) CallE(ctx context.Context, input Attrs, yield Callback) (any, error) {
	u, err := so.New(input)
	if err != nil {
		return nil, err
	}
	return u.CallE(ctx, yield)
}

// ServiceObjectUnit is one live instance of a ServiceObject. It carries the
// full Unit surface and narrows the calling convention to the single body.
type ServiceObjectUnit struct {
	*Unit
}

// Call runs the body against this instance. See Unit.Call for the validate,
// fail and capture sequence.
func (u *ServiceObjectUnit) Call(ctx context.Context, yield Callback) *ServiceObjectUnit {
	if yield != nil {
		u.Unit.Call(ctx, performOperation, yield)
	} else {
		u.Unit.Call(ctx, performOperation)
	}
	return u
}

// CallE runs the body in error form. See Unit.CallE.
func (u *ServiceObjectUnit) CallE(ctx context.Context, yield Callback) (any, error) {
	if yield != nil {
		return u.Unit.CallE(ctx, performOperation, yield)
	}
	return u.Unit.CallE(ctx, performOperation)
}

// Reset starts a fresh lifecycle. See Unit.Reset.
func (u *ServiceObjectUnit) Reset() *ServiceObjectUnit {
	u.Unit.Reset()
	return u
}
