package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"lifesure/internal/identity"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// RequireAuth verifies the bearer credential on every request and exposes the
// verified subject id and email for the remainder of the request lifecycle.
// Missing or malformed credentials are 401, rejected ones 403.
func RequireAuth(verifier identity.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "missing or invalid Authorization header"))
				return
			}

			ident, err := verifier.Verify(ctx, token)
			if err != nil {
				requestID := requestcontext.RequestID(ctx)
				if errors.Is(err, identity.ErrMalformedCredential) {
					logger.WarnContext(ctx, "unauthorized access - malformed credential",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "malformed credential"))
					return
				}
				logger.WarnContext(ctx, "forbidden - credential verification failed",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "credential verification failed"))
				return
			}

			ctx = requestcontext.WithSubjectID(ctx, ident.SubjectID)
			ctx = requestcontext.WithEmail(ctx, ident.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
