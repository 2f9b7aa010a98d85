package servo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	e := &Error{Attribute: "email", Message: "required"}
	assert.Equal(t, "email: required", e.Error())

	bare := &Error{Message: "something went wrong"}
	assert.Equal(t, "something went wrong", bare.Error())
}

func TestErrors_AddAndInspect(t *testing.T) {
	t.Parallel()

	es := NewErrors()
	assert.True(t, es.Empty())
	assert.Equal(t, 0, es.Len())

	es.Add("email", "required").Add("password", "min")
	es.AddEntry(&Error{Attribute: "email", Message: "taken"})

	assert.False(t, es.Empty())
	assert.Equal(t, 3, es.Len())
	assert.Equal(t, []string{"email: required", "password: min", "email: taken"}, es.Messages())

	onEmail := es.On("email")
	assert.Len(t, onEmail, 2)
	assert.Equal(t, "required", onEmail[0].Message)
	assert.Equal(t, "taken", onEmail[1].Message)
	assert.Empty(t, es.On("name"))
}

func TestErrors_EntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	es := NewErrors()
	es.Add("email", "required")

	entries := es.Entries()
	entries[0] = &Error{Attribute: "other", Message: "swapped"}

	// The list itself is untouched by mutating the returned slice.
	assert.Equal(t, []string{"email: required"}, es.Messages())
}

func TestErrors_Clear(t *testing.T) {
	t.Parallel()

	es := NewErrors()
	es.Add("email", "required")
	es.Clear()

	assert.True(t, es.Empty())
	assert.Empty(t, es.Messages())
}

func TestDefaultFullMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "known symbol",
			err:  &Error{Attribute: "email", Message: "required"},
			want: "email is required",
		},
		{
			name: "symbol with param",
			err:  &Error{Attribute: "password", Message: "min", Options: map[string]any{"param": "8"}},
			want: "password must be at least 8",
		},
		{
			name: "base attribute drops the prefix",
			err:  &Error{Attribute: BaseAttribute, Message: "required"},
			want: "is required",
		},
		{
			name: "unknown symbol passes through as prose",
			err:  &Error{Attribute: "email", Message: "has already been taken"},
			want: "email has already been taken",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DefaultFullMessage(tt.err))
		})
	}
}

func TestErrors_FullMessagesUsesFormatter(t *testing.T) {
	t.Parallel()

	es := &Errors{format: func(e *Error) string { return "<" + e.Message + ">" }}
	es.Add("email", "required")

	assert.Equal(t, []string{"<required>"}, es.FullMessages())
}
