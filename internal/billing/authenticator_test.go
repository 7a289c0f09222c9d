// AngelaMos | 2026
// authenticator_test.go

package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticator(t *testing.T) {
	auth := NewAuthenticator("s3cret")

	assert.True(t, auth.Authentic("s3cret"))
	assert.False(t, auth.Authentic("wrong"))
	assert.False(t, auth.Authentic("s3cret "))
	assert.False(t, auth.Authentic(""))
}
