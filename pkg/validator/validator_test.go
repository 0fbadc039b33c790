package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Overs    int    `validate:"omitempty,min=1,max=50"`
	Mode     string `validate:"omitempty,oneof=single multi"`
}

func TestParseErrorFieldMessages(t *testing.T) {
	v := validator.New()

	err := v.Struct(sampleRequest{Email: "not-an-email", Overs: 99, Mode: "triple"})
	require.Error(t, err)

	got := ParseError(err)
	assert.Equal(t, "This field is required", got["Username"])
	assert.Equal(t, "Must be a valid email address", got["Email"])
	assert.Equal(t, "Must be at most 50", got["Overs"])
	assert.Equal(t, "Must be one of: single multi", got["Mode"])
}

func TestParseErrorNonValidationError(t *testing.T) {
	got := ParseError(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"error": "unexpected EOF"}, got)
}

func TestParseErrorNil(t *testing.T) {
	assert.Empty(t, ParseError(nil))
}
