package servo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Attrs is the input shape for constructing units: declared attribute names
// mapped to their initial values.
type Attrs map[string]any

// Schema is the declared shape of a unit type: its attribute registry, in
// declaration order, and the validation rules attached to those attributes.
// Declarations happen once, at definition time; after that a Schema is
// read-only and safe to share between goroutines.
type Schema struct {
	name      string
	names     []string
	index     map[string]struct{}
	rules     []Rule
	validator Validator
	format    FormatFunc
	logger    *slog.Logger
}

// Option configures a Schema at construction.
type Option func(*Schema)

// WithValidator replaces the default tag validator. Use it to plug in a
// custom rule engine or a counting test double.
func WithValidator(v Validator) Option {
	return func(s *Schema) {
		s.validator = v
	}
}

// WithFormatter replaces the full-message formatter used by the error lists
// of units built from this schema.
func WithFormatter(f FormatFunc) Option {
	return func(s *Schema) {
		s.format = f
	}
}

// WithLogger sets the logger for units built from this schema. Defaults to
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Schema) {
		s.logger = l
	}
}

// NewSchema creates an empty schema. The name identifies the unit type in
// logs and error messages.
func NewSchema(name string, opts ...Option) *Schema {
	s := &Schema{
		name:  name,
		index: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = NewTagValidator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the unit type name.
func (s *Schema) Name() string {
	return s.name
}

// Declare registers attribute names. Registration is append-only and
// idempotent: redeclaring a name keeps its original position. Returns the
// schema so declarations chain.
func (s *Schema) Declare(names ...string) *Schema {
	for _, n := range names {
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Validates attaches a validation tag to a declared attribute. Attaching a
// rule to an undeclared attribute is a programming error and panics. Rules
// accumulate and run in declaration order.
func (s *Schema) Validates(attribute, tag string) *Schema {
	if _, ok := s.index[attribute]; !ok {
		panic(fmt.Sprintf("servo: Validates on undeclared attribute %q for %s", attribute, s.name))
	}
	s.rules = append(s.rules, Rule{Attribute: attribute, Tag: tag})
	return s
}

// AttributeNames returns the declared names in declaration order.
func (s *Schema) AttributeNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// New builds a fresh unit from the given input. Every input key must be a
// declared attribute; an unknown key rejects the whole instance with an
// *UnknownAttributeError. Declared attributes absent from the input start
// unset (nil).
func (s *Schema) New(input Attrs) (*Unit, error) {
	return s.newUnit(nil, input)
}

// MustNew is New, panicking on error. Intended for inputs the caller has
// already checked.
func (s *Schema) MustNew(input Attrs) *Unit {
	u, err := s.New(input)
	if err != nil {
		panic(err)
	}
	return u
}

// NewFrom builds a unit from a struct (or map), decoding exported fields to
// attribute values. Fields map by `servo` tag when present, otherwise by
// their lowercased field name. Keys that match no declared attribute are
// rejected the same way New rejects them.
func (s *Schema) NewFrom(v any) (*Unit, error) {
	decoded := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "servo",
		Result:  &decoded,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: building decoder: %w", s.name, err)
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("%s: decoding input: %w", s.name, err)
	}
	input := make(Attrs, len(decoded))
	for k, val := range decoded {
		if _, ok := s.index[k]; ok {
			input[k] = val
			continue
		}
		if lower := strings.ToLower(k); lower != k {
			if _, ok := s.index[lower]; ok {
				input[lower] = val
				continue
			}
		}
		input[k] = val
	}
	return s.newUnit(nil, input)
}

// newUnit is the shared constructor behind New, NewFrom and the service
// level constructors.
func (s *Schema) newUnit(svc *Service, input Attrs) (*Unit, error) {
	for k := range input {
		if _, ok := s.index[k]; !ok {
			return nil, &UnknownAttributeError{Unit: s.name, Attribute: k}
		}
	}
	values := make(map[string]any, len(s.names))
	for k, v := range input {
		values[k] = v
	}
	return &Unit{
		schema: s,
		svc:    svc,
		values: values,
		errs:   &Errors{format: s.format},
		state:  validityUnknown,
		logger: s.logger.With(slog.String("unit", s.name)),
	}, nil
}
