// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rentDayFixture struct {
	Day int `validate:"required,rent_day"`
}

func TestRentDayValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&rentDayFixture{Day: 1}))
	assert.NoError(t, ValidateStruct(&rentDayFixture{Day: 15}))
	assert.NoError(t, ValidateStruct(&rentDayFixture{Day: 28}))

	assert.Error(t, ValidateStruct(&rentDayFixture{Day: 0}))
	assert.Error(t, ValidateStruct(&rentDayFixture{Day: 29}))
	assert.Error(t, ValidateStruct(&rentDayFixture{Day: 31}))
	assert.Error(t, ValidateStruct(&rentDayFixture{Day: -5}))
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
	}

	err := ValidateStruct(&form{Email: "not-an-email"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 2)

	fields := []string{errs[0].Field, errs[1].Field}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

func TestGetValidationErrorsNonValidatorError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
