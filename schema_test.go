package servo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Declare(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email", "password").Declare("name")

	assert.Equal(t, []string{"email", "password", "name"}, s.AttributeNames())

	// Redeclaring keeps the original position.
	s.Declare("email")
	assert.Equal(t, []string{"email", "password", "name"}, s.AttributeNames())
}

func TestSchema_AttributeNamesReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email", "password")
	names := s.AttributeNames()
	names[0] = "mutated"

	assert.Equal(t, []string{"email", "password"}, s.AttributeNames())
}

func TestSchema_ValidatesPanicsOnUndeclared(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email")
	assert.PanicsWithValue(t,
		`servo: Validates on undeclared attribute "password" for signup`,
		func() { s.Validates("password", "required") },
	)
}

func TestSchema_New(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email", "password")

	t.Run("declared keys are accepted", func(t *testing.T) {
		t.Parallel()

		u, err := s.New(Attrs{"email": "user@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Get("email"))
		assert.Nil(t, u.Get("password"))
	})

	t.Run("unknown key rejects the whole instance", func(t *testing.T) {
		t.Parallel()

		u, err := s.New(Attrs{"email": "user@example.com", "nickname": "u"})
		assert.Nil(t, u)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownAttribute)

		var uae *UnknownAttributeError
		require.ErrorAs(t, err, &uae)
		assert.Equal(t, "signup", uae.Unit)
		assert.Equal(t, "nickname", uae.Attribute)
	})

	t.Run("empty input builds an unset unit", func(t *testing.T) {
		t.Parallel()

		u, err := s.New(nil)
		require.NoError(t, err)
		assert.Nil(t, u.Get("email"))
	})
}

func TestSchema_MustNew(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email")

	u := s.MustNew(Attrs{"email": "user@example.com"})
	assert.Equal(t, "user@example.com", u.Get("email"))

	assert.Panics(t, func() { s.MustNew(Attrs{"nope": true}) })
}

func TestSchema_NewFrom(t *testing.T) {
	t.Parallel()

	s := NewSchema("signup").Declare("email", "password", "remember_me")

	t.Run("tagged fields map by tag", func(t *testing.T) {
		t.Parallel()

		type input struct {
			Email      string `servo:"email"`
			Password   string `servo:"password"`
			RememberMe bool   `servo:"remember_me"`
		}
		u, err := s.NewFrom(input{Email: "user@example.com", Password: "secret123", RememberMe: true})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Get("email"))
		assert.Equal(t, "secret123", u.Get("password"))
		assert.Equal(t, true, u.Get("remember_me"))
	})

	t.Run("untagged fields map by lowercased name", func(t *testing.T) {
		t.Parallel()

		type input struct {
			Email    string
			Password string
		}
		u, err := s.NewFrom(input{Email: "user@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Get("email"))
	})

	t.Run("field matching no attribute is rejected", func(t *testing.T) {
		t.Parallel()

		type input struct {
			Email    string
			Nickname string
		}
		_, err := s.NewFrom(input{Email: "user@example.com", Nickname: "u"})
		assert.ErrorIs(t, err, ErrUnknownAttribute)
	})

	t.Run("maps decode too", func(t *testing.T) {
		t.Parallel()

		u, err := s.NewFrom(map[string]any{"email": "user@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Get("email"))
	})
}
