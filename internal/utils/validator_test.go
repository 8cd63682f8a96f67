// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordFixture struct {
	Password string `validate:"strong_password"`
}

type usernameFixture struct {
	Username string `validate:"username"`
}

func TestStrongPasswordValidation(t *testing.T) {
	valid := []string{"Passw0rd!", "Sup3r$ecret", "Ab1!efgh"}
	for _, p := range valid {
		assert.NoError(t, ValidateStruct(&passwordFixture{Password: p}), p)
	}

	invalid := []string{
		"short1!",     // too short
		"alllower1!",  // no uppercase
		"ALLUPPER1!",  // no lowercase
		"NoNumbers!!", // no digit
		"NoSpecial11", // no special character
	}
	for _, p := range invalid {
		assert.Error(t, ValidateStruct(&passwordFixture{Password: p}), p)
	}
}

func TestUsernameValidation(t *testing.T) {
	valid := []string{"abc", "user_123", "JohnDoe"}
	for _, u := range valid {
		assert.NoError(t, ValidateStruct(&usernameFixture{Username: u}), u)
	}

	invalid := []string{"ab", "has space", "bad-dash", "émile"}
	for _, u := range invalid {
		assert.Error(t, ValidateStruct(&usernameFixture{Username: u}), u)
	}
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"gte=18"`
	}

	errs := GetValidationErrors(ValidateStruct(&form{Email: "nope", Age: 12}))
	assert.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "age", errs[1].Field)
	assert.Equal(t, "gte", errs[1].Tag)
}

func TestGetValidationErrorsNilError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}
