package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// UserLoader resolves a verified subject id to the stored user record.
type UserLoader interface {
	FindBySubject(ctx context.Context, subjectID string) (*usermodel.User, error)
}

type contextKeyUser struct{}

// UserFromContext retrieves the user loaded by RequireRole.
func UserFromContext(ctx context.Context) *usermodel.User {
	if u, ok := ctx.Value(contextKeyUser{}).(*usermodel.User); ok {
		return u
	}
	return nil
}

// WithUser injects a loaded user into the context. Exported for handler
// tests that skip the middleware chain.
func WithUser(ctx context.Context, u *usermodel.User) context.Context {
	return context.WithValue(ctx, contextKeyUser{}, u)
}

// RequireRole is the single parameterized capability check: it loads the
// user behind the verified subject and compares the stored role against the
// required one. On success the loaded user rides along in the context so
// handlers don't fetch it again.
func RequireRole(users UserLoader, required usermodel.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			subject := requestcontext.SubjectID(ctx)
			if subject == "" {
				logger.WarnContext(ctx, "role check without verified subject",
					"request_id", requestID,
					"required_role", string(required),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "no verified subject"))
				return
			}

			user, err := users.FindBySubject(ctx, subject)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					logger.WarnContext(ctx, "role check for unknown user",
						"request_id", requestID,
						"subject_id", subject,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "user not found"))
					return
				}
				logger.ErrorContext(ctx, "failed to load user for role check",
					"request_id", requestID,
					"error", err.Error(),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load user"))
				return
			}

			if user.Role != required {
				logger.WarnContext(ctx, "role mismatch",
					"request_id", requestID,
					"subject_id", subject,
					"required_role", string(required),
					"actual_role", string(user.Role),
				)
				httputil.WriteError(w, dErrors.Newf(dErrors.CodeForbidden, "%s access required", required))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}
