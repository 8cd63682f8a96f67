// internal/models/verification_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationIsExpired(t *testing.T) {
	now := time.Now()
	v := EmailVerification{Expiration: now.Add(time.Hour)}

	assert.False(t, v.IsExpired(now))
	assert.False(t, v.IsExpired(now.Add(59*time.Minute)))

	// The boundary instant itself counts as expired.
	assert.True(t, v.IsExpired(now.Add(time.Hour)))
	assert.True(t, v.IsExpired(now.Add(2*time.Hour)))
}
