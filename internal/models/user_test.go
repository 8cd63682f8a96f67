// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPasswordHashing(t *testing.T) {
	u := &User{}
	err := u.SetPassword("Sup3rSecret!")
	assert.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("Sup3rSecret!"))
	assert.Error(t, u.CheckPassword("wrong-password"))
}

func TestUserFullName(t *testing.T) {
	u := &User{Username: "jdoe"}
	assert.Equal(t, "jdoe", u.FullName())

	u.FirstName = "John"
	u.LastName = "Doe"
	assert.Equal(t, "John Doe", u.FullName())
}
