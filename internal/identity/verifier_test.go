// AngelaMos | 2026
// verifier_test.go

package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defensordigital/defensor-api/internal/config"
	"github.com/defensordigital/defensor-api/internal/core"
)

const (
	testIssuer   = "https://id.example.test"
	testAudience = "defensor-api"
)

type signingKeys struct {
	private jwk.Key
	public  jwk.Set
}

func newSigningKeys(t *testing.T) signingKeys {
	t.Helper()

	rawKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	private, err := jwk.Import(rawKey)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, private.Set(jwk.AlgorithmKey, jwa.ES256()))

	public, err := private.PublicKey()
	require.NoError(t, err)

	publicSet := jwk.NewSet()
	require.NoError(t, publicSet.AddKey(public))

	return signingKeys{private: private, public: publicSet}
}

func (k signingKeys) sign(t *testing.T, builder *jwt.Builder) string {
	t.Helper()

	token, err := builder.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), k.private))
	require.NoError(t, err)

	return string(signed)
}

func newTestVerifier(keys signingKeys) *Verifier {
	return NewStaticVerifier(keys.public, config.IdentityConfig{
		Issuer:        testIssuer,
		Audience:      testAudience,
		VerifyTimeout: 5 * time.Second,
	})
}

func validBuilder() *jwt.Builder {
	now := time.Now()
	return jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		Subject("user-1").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("email", "a@x.com")
}

func TestVerifyValidToken(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	subject, err := verifier.Verify(
		context.Background(),
		keys.sign(t, validBuilder()),
	)
	require.NoError(t, err)

	assert.Equal(t, "user-1", subject.ID)
	assert.Equal(t, "a@x.com", subject.Email)
}

func TestVerifyTokenWithoutEmailClaim(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	now := time.Now()
	tokenString := keys.sign(t, jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		Subject("user-2").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)))

	subject, err := verifier.Verify(context.Background(), tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-2", subject.ID)
	assert.Empty(t, subject.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	past := time.Now().Add(-2 * time.Hour)
	tokenString := keys.sign(t, jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		Subject("user-1").
		IssuedAt(past).
		Expiration(past.Add(time.Hour)))

	_, err := verifier.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyClaimMismatchIsInvalidNotExpired(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)
	now := time.Now()

	// A claim mismatch must never be reported as expiry: clients
	// would refresh a token that can never validate.
	cases := map[string]*jwt.Builder{
		"wrong issuer": jwt.NewBuilder().
			Issuer("https://evil.example.test").
			Audience([]string{testAudience}).
			Subject("user-1").
			IssuedAt(now).
			Expiration(now.Add(time.Hour)),
		"wrong audience": jwt.NewBuilder().
			Issuer(testIssuer).
			Audience([]string{"other-api"}).
			Subject("user-1").
			IssuedAt(now).
			Expiration(now.Add(time.Hour)),
	}

	for name, builder := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(
				context.Background(),
				keys.sign(t, builder),
			)
			assert.ErrorIs(t, err, core.ErrTokenInvalid)
			assert.NotErrorIs(t, err, core.ErrTokenExpired)
		})
	}
}

func TestVerifyWrongKey(t *testing.T) {
	keys := newSigningKeys(t)
	otherKeys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	_, err := verifier.Verify(
		context.Background(),
		otherKeys.sign(t, validBuilder()),
	)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyGarbageToken(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	_, err := verifier.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyMissingSubject(t *testing.T) {
	keys := newSigningKeys(t)
	verifier := newTestVerifier(keys)

	now := time.Now()
	tokenString := keys.sign(t, jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		IssuedAt(now).
		Expiration(now.Add(time.Hour)))

	_, err := verifier.Verify(context.Background(), tokenString)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
