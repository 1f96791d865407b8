// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them once per request; handlers and
// services only read, so nothing here is mutated concurrently.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	subjectIDKey   struct{}
	emailKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// SubjectID retrieves the verified subject identifier from the context.
// Empty when the route did not pass through the auth middleware.
func SubjectID(ctx context.Context) string {
	if sub, ok := ctx.Value(subjectIDKey{}).(string); ok {
		return sub
	}
	return ""
}

// WithSubjectID injects a verified subject identifier into the context.
func WithSubjectID(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectIDKey{}, subject)
}

// Email retrieves the verified email from the context.
func Email(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey{}).(string); ok {
		return email
	}
	return ""
}

// WithEmail injects a verified email into the context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (tests, startup code).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
