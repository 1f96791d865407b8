// Package httpapi composes the HTTP surface: middleware chain, route groups
// and the role gates in front of them.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"lifesure/internal/applications"
	"lifesure/internal/blogs"
	"lifesure/internal/claims"
	"lifesure/internal/dashboard"
	"lifesure/internal/identity"
	"lifesure/internal/payments"
	"lifesure/internal/platform/metrics"
	"lifesure/internal/platform/middleware"
	"lifesure/internal/policies"
	"lifesure/internal/reviews"
	"lifesure/internal/users"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Deps is everything the router needs, injected explicitly by main.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Verifier identity.Verifier

	// UserLoader backs the role gates. It is the store, not the service,
	// so the middleware sees sentinel errors.
	UserLoader middleware.UserLoader

	// Health reports storage reachability for the liveness probe.
	Health func(ctx context.Context) error

	Users        *users.Handler
	Policies     *policies.Handler
	Applications *applications.Handler
	Reviews      *reviews.Handler
	Payments     *payments.Handler
	Claims       *claims.Handler
	Blogs        *blogs.Handler
	Dashboard    *dashboard.Handler
}

// New builds the full route tree. Every authenticated group re-verifies the
// bearer token; role groups additionally load the user and check the stored
// role.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealth(d.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public surface.
	r.Group(func(r chi.Router) {
		d.Users.RegisterPublic(r)
		d.Policies.RegisterPublic(r)
		d.Reviews.RegisterPublic(r)
		d.Blogs.RegisterPublic(r)
	})

	// Any authenticated caller, role not yet checked.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Verifier, d.Logger))
		d.Users.RegisterAuthed(r)
	})

	guard := func(r chi.Router, required usermodel.Role) {
		r.Use(middleware.RequireAuth(d.Verifier, d.Logger))
		r.Use(middleware.RequireRole(d.UserLoader, required, d.Logger))
	}

	r.Group(func(r chi.Router) {
		guard(r, usermodel.RoleCustomer)
		d.Users.RegisterCustomer(r)
		d.Applications.RegisterCustomer(r)
		d.Reviews.RegisterCustomer(r)
		d.Payments.RegisterCustomer(r)
		d.Claims.RegisterCustomer(r)
	})

	r.Group(func(r chi.Router) {
		guard(r, usermodel.RoleAgent)
		d.Applications.RegisterAgent(r)
		d.Blogs.RegisterAgent(r)
	})

	r.Group(func(r chi.Router) {
		guard(r, usermodel.RoleAdmin)
		d.Users.RegisterAdmin(r)
		d.Policies.RegisterAdmin(r)
		d.Applications.RegisterAdmin(r)
		d.Payments.RegisterAdmin(r)
		d.Claims.RegisterAdmin(r)
		d.Dashboard.RegisterAdmin(r)
	})

	return otelhttp.NewHandler(r, "http.server")
}

func handleHealth(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "storage unreachable"))
				return
			}
		}
		httputil.WriteSuccess(w, http.StatusOK, "ok", nil)
	}
}
