package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
	"github.com/invoicemate/entitlementkit/pkg/logger"
)

// Client is the real store-backed Provider. It owns the only mutable state
// in the adapter: a private configured flag plus the app user identity it was
// configured with. The flag only ever transitions false to true; a repeated
// Configure is a silent no-op, so a benign race costs at most one redundant
// check, never corruption.
type Client struct {
	cfg    Config
	gw     Gateway
	logger *slog.Logger

	mu         sync.Mutex
	configured bool
	appUserID  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithGateway replaces the store gateway. Intended for tests.
func WithGateway(gw Gateway) ClientOption {
	return func(c *Client) {
		if gw != nil {
			c.gw = gw
		}
	}
}

// WithClientLogger sets the adapter's logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a store-backed provider. The client is not usable until
// Configure has been called.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.gw == nil {
		c.gw = newRESTGateway(cfg)
	}
	return c, nil
}

// NewProvider selects the provider variant once at startup: a Client when
// the store API is configured for this deployment, the no-op provider
// otherwise. Call sites then depend on Provider and never branch on SDK
// presence themselves.
func NewProvider(cfg Config, opts ...ClientOption) (Provider, error) {
	if cfg.APIKey == "" {
		return NewNoopProvider(), nil
	}
	return NewClient(cfg, opts...)
}

// Available always reports true for the real client; the no-op variant is
// the one handed to platforms without billing capability.
func (c *Client) Available() bool { return true }

// Configure binds the client to an app user identity. Idempotent: once
// configured, subsequent calls return immediately without touching the
// identity, even if a different appUserID is passed.
func (c *Client) Configure(_ context.Context, appUserID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.configured {
		return nil
	}
	if appUserID == "" {
		// Anonymous identity: purchases must work before login per store
		// policy. LinkUser merges this identity after authentication.
		appUserID = "$anon:" + uuid.NewString()
	}
	c.appUserID = appUserID
	c.configured = true
	return nil
}

// Offerings returns the store's offerings, or nil without error when the
// client is not configured yet.
func (c *Client) Offerings(ctx context.Context) ([]Offering, error) {
	user, ok := c.identity()
	if !ok {
		return nil, nil
	}

	offerings, err := c.gw.Offerings(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("fetch offerings: %w", err)
	}
	return offerings, nil
}

// PurchaseProduct looks the product up across all offerings and purchases
// it. The search is deliberately not limited to the current offering; a
// product may live in a non-default one.
func (c *Client) PurchaseProduct(ctx context.Context, productID string) (*PurchaseResult, error) {
	user, ok := c.identity()
	if !ok {
		return nil, ErrNotConfigured
	}

	offerings, err := c.gw.Offerings(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("fetch offerings before purchase: %w", err)
	}

	product, found := findProduct(offerings, productID)
	if !found {
		return nil, &ProductNotFoundError{
			ProductID: productID,
			Found:     productIDs(offerings),
		}
	}

	info, err := c.gw.Purchase(ctx, user, product)
	if errors.Is(err, ErrPurchaseCancelled) {
		c.logger.InfoContext(ctx, "purchase cancelled by user",
			logger.ProductID(productID))
		return &PurchaseResult{UserCancelled: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("purchase %s: %w", productID, err)
	}
	return &PurchaseResult{CustomerInfo: info}, nil
}

// RestorePurchases replays historical purchases. An account with nothing to
// restore gets a success result carrying its unchanged customer info.
func (c *Client) RestorePurchases(ctx context.Context) (*PurchaseResult, error) {
	user, ok := c.identity()
	if !ok {
		return nil, ErrNotConfigured
	}

	info, err := c.gw.Restore(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("restore purchases: %w", err)
	}
	return &PurchaseResult{CustomerInfo: info}, nil
}

// CustomerInfo returns the provider's current truth, or nil without error
// when unconfigured.
func (c *Client) CustomerInfo(ctx context.Context) (*entitlement.CustomerInfo, error) {
	user, ok := c.identity()
	if !ok {
		return nil, nil
	}

	info, err := c.gw.Subscriber(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("fetch customer info: %w", err)
	}
	return info, nil
}

// LinkUser merges the anonymous purchase identity into the authenticated
// account. An identity that is already linked counts as success, which makes
// repeated calls with the same id safe.
func (c *Client) LinkUser(ctx context.Context, accountID uuid.UUID) error {
	user, ok := c.identity()
	if !ok {
		return ErrNotConfigured
	}

	_, err := c.gw.LinkIdentity(ctx, user, accountID.String())
	if errors.Is(err, ErrAlreadyLinked) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("link user %s: %w", accountID, err)
	}
	return nil
}

func (c *Client) identity() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appUserID, c.configured
}

func productIDs(offerings []Offering) []string {
	var ids []string
	for _, off := range offerings {
		for _, pkg := range off.Packages {
			ids = append(ids, pkg.Product.Identifier)
		}
	}
	return ids
}
