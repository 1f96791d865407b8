package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lifesure/internal/applications"
	"lifesure/internal/blogs"
	"lifesure/internal/claims"
	"lifesure/internal/dashboard"
	httpapi "lifesure/internal/http"
	"lifesure/internal/identity"
	"lifesure/internal/payments"
	"lifesure/internal/payments/stripeclient"
	"lifesure/internal/platform/config"
	"lifesure/internal/platform/httpserver"
	"lifesure/internal/platform/logger"
	"lifesure/internal/platform/metrics"
	"lifesure/internal/platform/mongodb"
	"lifesure/internal/platform/obs"
	"lifesure/internal/policies"
	"lifesure/internal/reviews"
	"lifesure/internal/users"
)

const shutdownTimeout = 10 * time.Second

// main wires every dependency explicitly and keeps the server lifecycle
// small. Business logic lives in the internal service packages.
func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		fatal(log, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := obs.InitTracer(ctx, "lifesure", cfg.OTLPEndpoint, cfg.Environment)
		if err != nil {
			fatal(log, "tracer init failed", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	store, err := mongodb.New(ctx, cfg)
	if err != nil {
		fatal(log, "storage unavailable", err)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = store.Close(cctx)
	}()

	m := metrics.New()

	userStore := users.NewMongoStore(store.Collection("users"))
	policyStore := policies.NewMongoStore(store.Collection("policies"))
	applicationStore := applications.NewMongoStore(store.Collection("applications"))
	reviewStore := reviews.NewMongoStore(store.Collection("reviews"))
	paymentStore := payments.NewMongoStore(store.Collection("payments"))
	claimStore := claims.NewMongoStore(store.Collection("claims"))

	for name, ensure := range map[string]func(context.Context) error{
		"users":        userStore.EnsureIndexes,
		"applications": applicationStore.EnsureIndexes,
		"reviews":      reviewStore.EnsureIndexes,
		"payments":     paymentStore.EnsureIndexes,
		"claims":       claimStore.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			fatal(log, "index creation failed for "+name, err)
		}
	}

	userService := users.NewService(userStore, m)
	policyService := policies.NewService(policyStore)
	applicationService := applications.NewService(applicationStore, policyStore, userStore, log, m)
	reviewService := reviews.NewService(reviewStore, policyStore)
	paymentService := payments.NewService(paymentStore, policyStore, stripeclient.New(cfg.StripeSecretKey), m)
	claimService := claims.NewService(claimStore, applicationStore, policyStore, userStore, m)
	dashboardService := dashboard.NewService(userStore, policyStore, applicationStore, claimStore, paymentStore)

	router := httpapi.New(httpapi.Deps{
		Logger:       log,
		Metrics:      m,
		Verifier:     identity.NewJWTVerifier(cfg.IdentityJWTSecret, cfg.IdentityIssuer),
		UserLoader:   userStore,
		Health:       store.Health,
		Users:        users.NewHandler(userService, log),
		Policies:     policies.NewHandler(policyService, log),
		Applications: applications.NewHandler(applicationService, log),
		Reviews:      reviews.NewHandler(reviewService, log),
		Payments:     payments.NewHandler(paymentService, log),
		Claims:       claims.NewHandler(claimService, log),
		Blogs:        blogs.NewHandler(blogs.NewService(blogs.NewMongoStore(store.Collection("blogs")), log), log),
		Dashboard:    dashboard.NewHandler(dashboardService, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err.Error())
	os.Exit(1)
}
