package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type childPayload struct {
	Text string `json:"text" validate:"notblank,max=5"`
}

type parentPayload struct {
	Name     string          `json:"name" validate:"required"`
	Children *[]childPayload `json:"children" validate:"omitempty,dive"`
	Ignored  string          `json:"-" validate:"max=1"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(parentPayload{Name: "ok"}))

	children := []childPayload{{Text: "fine"}, {Text: "   "}, {Text: "too long"}}
	err := Struct(parentPayload{Children: &children})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "required", verr.Fields[0].Tag)
	assert.Equal(t, "children[1].text", verr.Fields[1].Field)
	assert.Equal(t, "text must not be blank", verr.Fields[1].Message)
	assert.Equal(t, "children[2].text", verr.Fields[2].Field)
	assert.Equal(t, "max", verr.Fields[2].Tag)
	assert.Contains(t, err.Error(), "text must not be blank")
}

func TestStruct_NotAStruct(t *testing.T) {
	err := Struct(42)
	assert.Error(t, err)

	var verr *Error
	assert.False(t, errors.As(err, &verr))
}
