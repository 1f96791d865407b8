package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures everything the server reads from the environment. Startup
// fails fast when a required value is missing; there are no runtime reloads.
type Config struct {
	Addr string `envconfig:"ADDR" default:":3000"`

	MongoURI      string        `envconfig:"MONGODB_URI" required:"true"`
	MongoDatabase string        `envconfig:"MONGODB_DATABASE" default:"lifesure"`
	MongoTimeout  time.Duration `envconfig:"MONGODB_CONNECT_TIMEOUT" default:"10s"`

	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`

	// Shared secret and expected issuer for tokens minted by the external
	// identity provider.
	IdentityJWTSecret string `envconfig:"IDENTITY_JWT_SECRET" required:"true"`
	IdentityIssuer    string `envconfig:"IDENTITY_ISSUER" default:"lifesure-identity"`

	// Empty disables tracing.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment  string `envconfig:"ENV" default:"dev"`
}

// Load builds the config from environment variables.
func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
