package servo

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagValidator_Validate(t *testing.T) {
	t.Parallel()

	tv := NewTagValidator()

	t.Run("clean values produce no entries", func(t *testing.T) {
		t.Parallel()

		entries := tv.Validate(
			map[string]any{"email": "user@example.com", "password": "secret123"},
			[]Rule{
				{Attribute: "email", Tag: "required,email"},
				{Attribute: "password", Tag: "required,min=8"},
			},
		)
		assert.Empty(t, entries)
	})

	t.Run("violations follow rule order", func(t *testing.T) {
		t.Parallel()

		entries := tv.Validate(
			map[string]any{"email": "not-an-email", "password": "short"},
			[]Rule{
				{Attribute: "email", Tag: "required,email"},
				{Attribute: "password", Tag: "required,min=8"},
			},
		)
		require.Len(t, entries, 2)
		assert.Equal(t, "email", entries[0].Attribute)
		assert.Equal(t, "email", entries[0].Message)
		assert.Equal(t, "password", entries[1].Attribute)
		assert.Equal(t, "min", entries[1].Message)
	})

	t.Run("rule param is recorded", func(t *testing.T) {
		t.Parallel()

		entries := tv.Validate(
			map[string]any{"password": "short"},
			[]Rule{{Attribute: "password", Tag: "min=8"}},
		)
		require.Len(t, entries, 1)
		assert.Equal(t, "8", entries[0].Options["param"])
	})

	t.Run("unset attribute checks as empty string", func(t *testing.T) {
		t.Parallel()

		entries := tv.Validate(
			map[string]any{},
			[]Rule{{Attribute: "email", Tag: "required"}},
		)
		require.Len(t, entries, 1)
		assert.Equal(t, "email", entries[0].Attribute)
		assert.Equal(t, "required", entries[0].Message)
	})

	t.Run("nil value checks as empty string", func(t *testing.T) {
		t.Parallel()

		entries := tv.Validate(
			map[string]any{"email": nil},
			[]Rule{{Attribute: "email", Tag: "required"}},
		)
		require.Len(t, entries, 1)
		assert.Equal(t, "required", entries[0].Message)
	})
}

func TestTagValidator_RegisterValidation(t *testing.T) {
	t.Parallel()

	tv := NewTagValidator()
	err := tv.RegisterValidation("uppercase_start", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && s[0] >= 'A' && s[0] <= 'Z'
	})
	require.NoError(t, err)

	entries := tv.Validate(
		map[string]any{"name": "alice"},
		[]Rule{{Attribute: "name", Tag: "uppercase_start"}},
	)
	require.Len(t, entries, 1)
	assert.Equal(t, "uppercase_start", entries[0].Message)

	entries = tv.Validate(
		map[string]any{"name": "Alice"},
		[]Rule{{Attribute: "name", Tag: "uppercase_start"}},
	)
	assert.Empty(t, entries)
}
