// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/defensordigital/defensor-api/internal/core"
)

const (
	SubjectIDKey    contextKey = "subject_id"
	SubjectEmailKey contextKey = "subject_email"
)

// Subject is the verified identity attached to a request after the
// identity gate admits it.
type Subject struct {
	ID    string
	Email string
}

// SubjectVerifier validates a bearer credential against the external
// identity provider.
type SubjectVerifier interface {
	Verify(ctx context.Context, token string) (*Subject, error)
}

// Authenticator is the identity gate stage. Any verification failure
// short-circuits with 401; identity-provider errors are never
// surfaced as server faults.
func Authenticator(verifier SubjectVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			subject, err := verifier.Verify(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, SubjectIDKey, subject.ID)
			ctx = context.WithValue(ctx, SubjectEmailKey, subject.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetSubjectID(ctx context.Context) string {
	if id, ok := ctx.Value(SubjectIDKey).(string); ok {
		return id
	}
	return ""
}

func GetSubjectEmail(ctx context.Context) string {
	if email, ok := ctx.Value(SubjectEmailKey).(string); ok {
		return email
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSubjectID(ctx) != ""
}
