package subsync

import "time"

// Config holds synchronizer settings.
type Config struct {
	BackendURL string `env:"SYNC_BACKEND_URL"`
	Provider   string `env:"SYNC_PROVIDER" envDefault:"revenuecat"`

	// Bounded retry for backend failures inside one Sync call. Distinct from
	// the deferred path, which waits for the next login rather than a timer.
	RetryAttempts uint64        `env:"SYNC_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"SYNC_RETRY_INTERVAL" envDefault:"2s"`

	RequestTimeout time.Duration `env:"SYNC_HTTP_TIMEOUT" envDefault:"15s"`
	HTTPRetryMax   int           `env:"SYNC_HTTP_RETRY_MAX" envDefault:"0"`
}
