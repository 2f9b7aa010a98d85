package servo

import (
	"github.com/go-playground/validator/v10"
)

// Rule binds one attribute to one validation tag, for example
// {Attribute: "email", Tag: "required,email"}. Rules run in the order they
// were declared with Validates.
type Rule struct {
	Attribute string
	Tag       string
}

// Validator checks attribute values against declared rules and reports each
// violation as an error entry. Implementations must be deterministic: the
// returned entries follow rule declaration order.
type Validator interface {
	Validate(values map[string]any, rules []Rule) []*Error
}

// TagValidator is the default Validator, delegating each rule to
// go-playground/validator tag evaluation. The zero value is not usable;
// construct with NewTagValidator.
type TagValidator struct {
	validate *validator.Validate
}

var _ Validator = (*TagValidator)(nil)

// NewTagValidator returns a TagValidator backed by a fresh validator
// instance with the library's standard tag set.
func NewTagValidator() *TagValidator {
	return &TagValidator{validate: validator.New()}
}

// RegisterValidation adds a custom tag so Validates declarations can
// reference it. It mirrors validator.Validate.RegisterValidation.
func (tv *TagValidator) RegisterValidation(tag string, fn validator.Func) error {
	return tv.validate.RegisterValidation(tag, fn)
}

// Validate evaluates every rule against the named attribute's value. A nil
// or absent value is checked as the empty string so tags like "required"
// trip on it. Each violation becomes one entry whose Message is the rule
// symbol and whose Options carry the rule parameter when one exists.
func (tv *TagValidator) Validate(values map[string]any, rules []Rule) []*Error {
	var out []*Error
	for _, r := range rules {
		val := values[r.Attribute]
		if val == nil {
			val = ""
		}
		err := tv.validate.Var(val, r.Tag)
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			out = append(out, &Error{Attribute: r.Attribute, Message: err.Error()})
			continue
		}
		for _, fe := range verrs {
			e := &Error{Attribute: r.Attribute, Message: fe.Tag()}
			if p := fe.Param(); p != "" {
				e.Options = map[string]any{"param": p}
			}
			out = append(out, e)
		}
	}
	return out
}
