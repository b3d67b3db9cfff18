package errorc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorCodes(t *testing.T) {
	b := NewErrorBuilder("test")

	notFound := b.New("missing", gorm.ErrRecordNotFound)
	assert.True(t, IsNotFound(notFound))
	assert.True(t, Is(notFound, ErrorCodeNotFound))
	// DB 不覆盖 NotFound
	assert.True(t, IsNotFound(notFound.DB()))

	v := b.Validation("bad", []FieldError{{Field: "name", Message: "empty"}})
	assert.True(t, Is(v, ErrorCodeValid))
	assert.Equal(t, "name: empty", v.Fields[0].String())
	assert.Contains(t, v.Error(), "Field: name: empty")

	wrapped := b.New("timeout", b.New("query", context.DeadlineExceeded).DB()).Unavailable()
	assert.True(t, Is(wrapped, ErrorCodeUnavailable))
	assert.True(t, IsTransient(wrapped))
	assert.True(t, errors.Is(wrapped, context.DeadlineExceeded))
	assert.Contains(t, wrapped.RootCause(), "query: context deadline exceeded")
}

func TestParseError(t *testing.T) {
	assert.Nil(t, ParseError(nil))

	plain := ParseError(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, "boom", plain.Msg)
	assert.Equal(t, ErrorCodeUnknown, plain.ErrorCode)
}

func TestStackTraceToggle(t *testing.T) {
	defer SetStackTraceEnabled(true)

	SetStackTraceEnabled(false)
	e := New("no stack", nil)
	assert.Empty(t, e.getFullStack())

	SetStackTraceEnabled(true)
	e = New("with stack", nil)
	assert.NotEmpty(t, e.getFullStack())
}
