package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrWrongPassword_MatchesInvalidCredentials(t *testing.T) {
	assert.True(t, errors.Is(ErrWrongPassword, ErrInvalidCredentials))
	assert.NotEqual(t, ErrInvalidCredentials.Error(), ErrWrongPassword.Error())
}

func TestValidationError(t *testing.T) {
	err := ValidationError("name is required")
	assert.True(t, errors.Is(err, ErrorValidation))
	assert.Contains(t, err.Error(), "name is required")
}
