// AngelaMos | 2026
// authenticator.go

package billing

import (
	"crypto/subtle"
)

// Authenticator checks the shared-secret signature carried on every
// inbound webhook. An event failing this check must cause no store
// access at all.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

// Authentic compares in constant time to keep the secret's length
// and content off the timing side channel.
func (a *Authenticator) Authentic(signature string) bool {
	if signature == "" {
		return false
	}

	return subtle.ConstantTimeCompare(
		[]byte(signature),
		[]byte(a.secret),
	) == 1
}
