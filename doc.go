// Package servo implements validated service objects: small units of business
// logic that check their declared input attributes, execute named operations,
// and report success or failure through one uniform surface.
//
// A unit type is described once, at definition time, by a Service or
// ServiceObject value: its declared attribute names, the validation rules
// attached to them, and the operations it can run. Instances are then
// constructed from attribute input and carry their own lifecycle state: a
// memoized validity flag, a live error list and the captured result of the
// most recent operation.
//
// Every operation gets two calling conventions. The plain form never returns
// an error for business failures; it records them on the instance and returns
// the instance itself so calls chain. The error form (CallE) folds the
// instance state into exactly two error types, *InvalidError when validation
// rejected the input and *FailureError when execution left errors behind, and
// yields the captured value directly on success. Callers pick whichever style
// fits, uniformly across all unit types.
//
//	var SignupUser = servo.NewServiceObject("SignupUser").
//		Declare("email", "password").
//		Validates("email", "required,email").
//		Validates("password", "required,min=12").
//		Perform(func(ctx context.Context, u *servo.Unit, yield servo.Callback) (any, error) {
//			return register(ctx, u.String("email"), u.String("password"))
//		})
//
//	out, err := SignupUser.CallE(ctx, servo.Attrs{
//		"email":    "jo@example.com",
//		"password": "correct horse battery",
//	}, nil)
//
// Validation is delegated to a pluggable Validator; the default TagValidator
// evaluates go-playground/validator tag expressions against each attribute.
// Validity is computed at most once per instance and stays fixed until Reset,
// while the error list remains live: operations and callers may append to or
// clear it at any time. Succeeded therefore means "validated clean and no
// errors recorded since", and can flip to false after a successful validation
// pass. The two pieces of state are deliberately separate; do not expect one
// to track the other.
//
// Definitions are meant to be built during package initialization and treated
// as read-only afterwards. Once defined, a Service or ServiceObject may be
// shared freely across goroutines to construct instances; the instances
// themselves are not safe for concurrent use.
package servo
