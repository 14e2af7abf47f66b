package esorm

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mtsarev06/es-orm/internal/es"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	apiKey           string
	transport        http.RoundTripper
	logger           *zap.Logger
	readinessTimeout time.Duration

	// store overrides the engine client, used by tests.
	store es.Store
}

// WithAddresses sets the engine endpoint URLs.
func WithAddresses(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithBasicAuth sets username/password authentication.
func WithBasicAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithAPIKey sets API-key authentication.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithTransport sets a custom HTTP transport for the engine client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) { c.transport = rt }
}

// WithLogger sets the logger used by the client's services.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithReadinessTimeout sets how long New waits for the engine to respond.
// Zero disables the readiness check.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.readinessTimeout = d }
}

func withStore(s es.Store) Option {
	return func(c *clientConfig) { c.store = s }
}
