// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defensordigital/defensor-api/internal/core"
)

type fakeVerifier struct {
	subject *Subject
	err     error
	calls   int
}

func (f *fakeVerifier) Verify(
	_ context.Context,
	_ string,
) (*Subject, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.subject, nil
}

func authChain(verifier SubjectVerifier, next http.HandlerFunc) http.Handler {
	return Authenticator(verifier)(next)
}

func TestAuthenticatorMissingHeader(t *testing.T) {
	verifier := &fakeVerifier{}
	handler := authChain(verifier, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a credential")
	})

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, verifier.calls, "verifier must not be called")
}

func TestAuthenticatorMalformedHeader(t *testing.T) {
	verifier := &fakeVerifier{}
	handler := authChain(verifier, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	for _, header := range []string{"tok123", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	assert.Zero(t, verifier.calls)
}

func TestAuthenticatorVerificationFailureIsNeverAServerFault(t *testing.T) {
	cases := map[string]error{
		"expired": fmt.Errorf("verify: %w", core.ErrTokenExpired),
		"invalid": fmt.Errorf("verify: %w", core.ErrTokenInvalid),
		"other":   fmt.Errorf("identity provider exploded"),
	}

	for name, verifyErr := range cases {
		t.Run(name, func(t *testing.T) {
			verifier := &fakeVerifier{err: verifyErr}
			handler := authChain(
				verifier,
				func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler must not run")
				},
			)

			req := httptest.NewRequest(http.MethodPost, "/chat", nil)
			req.Header.Set("Authorization", "Bearer tok123")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticatorAttachesSubject(t *testing.T) {
	verifier := &fakeVerifier{
		subject: &Subject{ID: "user-1", Email: "a@x.com"},
	}

	var seenID, seenEmail string
	handler := authChain(verifier, func(w http.ResponseWriter, r *http.Request) {
		seenID = GetSubjectID(r.Context())
		seenEmail = GetSubjectEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "bearer tok123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", seenID)
	assert.Equal(t, "a@x.com", seenEmail)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "bearer  abc123 ")
	assert.Equal(t, "abc123", ExtractToken(req))
}
