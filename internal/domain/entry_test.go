package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry("medline")

	require.NotNil(t, e)
	assert.Equal(t, "medline", e.Format)
	assert.Empty(t, e.Fields)
}

func TestEntry_SetField(t *testing.T) {
	t.Run("sets and overwrites values", func(t *testing.T) {
		e := NewEntry("medline")

		e.SetField(FieldTitle, "First title")
		e.SetField(FieldTitle, "Second title")

		v, ok := e.GetField(FieldTitle)
		require.True(t, ok)
		assert.Equal(t, "Second title", v)
	})

	t.Run("ignores empty values", func(t *testing.T) {
		e := NewEntry("medline")

		e.SetField(FieldVolume, "")

		assert.False(t, e.HasField(FieldVolume))
	})

	t.Run("initializes a nil field map", func(t *testing.T) {
		e := &Entry{Format: "medline"}

		e.SetField(FieldPMID, "12345")

		v, ok := e.GetField(FieldPMID)
		require.True(t, ok)
		assert.Equal(t, "12345", v)
	})
}

func TestEntry_ClearField(t *testing.T) {
	e := NewEntry("medline")
	e.SetField(FieldStatus, "MEDLINE")

	e.ClearField(FieldStatus)
	assert.False(t, e.HasField(FieldStatus))

	// Clearing an absent field is not an error.
	e.ClearField(FieldStatus)
	e.ClearField("no-such-field")
}

func TestEntry_FieldNames(t *testing.T) {
	e := NewEntry("medline")
	e.SetField(FieldYear, "2016")
	e.SetField(FieldAuthor, "Smith J")
	e.SetField(FieldTitle, "A title")

	assert.Equal(t, []string{FieldAuthor, FieldTitle, FieldYear}, e.FieldNames())
}

func TestErrorSentinels(t *testing.T) {
	t.Run("request error matches ErrMalformedRequest", func(t *testing.T) {
		cause := errors.New("bad scheme")
		err := error(&RequestError{URL: "::/bad", Cause: cause})

		assert.True(t, errors.Is(err, ErrMalformedRequest))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("parse error matches ErrParseFatal", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := error(&ParseError{Source: "medline", Cause: cause})

		assert.True(t, errors.Is(err, ErrParseFatal))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("fetch error exposes its cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := error(NewFetchError("esearch request", cause))

		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "esearch request")
	})

	t.Run("external API error reports source and status", func(t *testing.T) {
		err := NewExternalAPIError("Medline", 503, "service unavailable", nil)

		assert.Contains(t, err.Error(), "Medline")
		assert.Contains(t, err.Error(), "503")
	})
}
