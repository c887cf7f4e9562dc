package billing

import "time"

// Config holds store API settings for the real provider. Leaving APIKey
// empty means the deployment has no billing capability and NewProvider
// selects the no-op variant.
type Config struct {
	APIKey  string `env:"STORE_API_KEY"`
	BaseURL string `env:"STORE_API_URL" envDefault:"https://api.revenuecat.com/v1"`

	// Product identifiers are fixed per paid tier. Entitlement identifiers
	// are separate fixed strings (see pkg/entitlement) independent of these.
	ProProductID   string `env:"STORE_PRODUCT_PRO" envDefault:"im_pro_monthly"`
	TradeProductID string `env:"STORE_PRODUCT_TRADE" envDefault:"im_trade_monthly"`

	RequestTimeout time.Duration `env:"STORE_HTTP_TIMEOUT" envDefault:"15s"`
	RetryMax       int           `env:"STORE_HTTP_RETRY_MAX" envDefault:"3"`
}

// ProductForPlan returns the configured product id for a paid tier name,
// or "" for anything else.
func (c Config) ProductForPlan(plan string) string {
	switch plan {
	case "pro":
		return c.ProProductID
	case "trade":
		return c.TradeProductID
	default:
		return ""
	}
}
