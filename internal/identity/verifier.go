// AngelaMos | 2026
// verifier.go

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/defensordigital/defensor-api/internal/config"
	"github.com/defensordigital/defensor-api/internal/core"
	"github.com/defensordigital/defensor-api/internal/middleware"
)

// Verifier validates bearer tokens issued by the external identity
// provider. Keys come from the provider's JWKS endpoint and are
// cached and refreshed in the background; this service never signs
// tokens of its own.
type Verifier struct {
	keySet jwk.Set
	config config.IdentityConfig
}

func NewVerifier(
	ctx context.Context,
	cfg config.IdentityConfig,
) (*Verifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("create jwks cache: %w", err)
	}

	if err := cache.Register(ctx, cfg.JWKSURL); err != nil {
		return nil, fmt.Errorf("register jwks url: %w", err)
	}

	// Fetch once at startup so a bad JWKS URL fails fast instead of
	// rejecting every request at runtime.
	refreshCtx, cancel := context.WithTimeout(ctx, cfg.VerifyTimeout)
	defer cancel()

	if _, err := cache.Refresh(refreshCtx, cfg.JWKSURL); err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	keySet, err := cache.CachedSet(cfg.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("cached jwks set: %w", err)
	}

	return &Verifier{keySet: keySet, config: cfg}, nil
}

// NewStaticVerifier builds a verifier over a fixed key set. Used in
// tests and in deployments that pin the provider's keys.
func NewStaticVerifier(
	keySet jwk.Set,
	cfg config.IdentityConfig,
) *Verifier {
	return &Verifier{keySet: keySet, config: cfg}
}

// Verify implements middleware.SubjectVerifier. Every failure mode
// maps to a credential error; the caller never sees a 5xx for a bad
// or unverifiable token.
func (v *Verifier) Verify(
	ctx context.Context,
	tokenString string,
) (*middleware.Subject, error) {
	opts := []jwt.ParseOption{
		jwt.WithKeySet(v.keySet),
		jwt.WithValidate(true),
	}

	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	// Email is optional in provider tokens; access decisions never
	// depend on it.
	var email string
	//nolint:errcheck // absent claim leaves email empty
	_ = token.Get("email", &email)

	return &middleware.Subject{ID: subject, Email: email}, nil
}
