package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// Gateway is the opaque SDK boundary: everything the store API can do for
// one app user. The Client owns all policy (configured flag, product lookup,
// cancellation mapping); the gateway only moves bytes.
type Gateway interface {
	Subscriber(ctx context.Context, appUserID string) (*entitlement.CustomerInfo, error)
	Offerings(ctx context.Context, appUserID string) ([]Offering, error)
	Purchase(ctx context.Context, appUserID string, product StoreProduct) (*entitlement.CustomerInfo, error)
	Restore(ctx context.Context, appUserID string) (*entitlement.CustomerInfo, error)
	LinkIdentity(ctx context.Context, appUserID, accountID string) (*entitlement.CustomerInfo, error)
}

// restGateway talks to the store billing API over HTTP with bearer auth.
// Transient failures are retried by the underlying retryable client.
type restGateway struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
}

func newRESTGateway(cfg Config) *restGateway {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil // request logging happens at the adapter level

	return &restGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    rc,
	}
}

func (g *restGateway) Subscriber(ctx context.Context, appUserID string) (*entitlement.CustomerInfo, error) {
	var payload subscriberPayload
	path := "/subscribers/" + url.PathEscape(appUserID)
	if err := g.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toCustomerInfo(), nil
}

func (g *restGateway) Offerings(ctx context.Context, appUserID string) ([]Offering, error) {
	var payload offeringsPayload
	path := "/subscribers/" + url.PathEscape(appUserID) + "/offerings"
	if err := g.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toOfferings(), nil
}

func (g *restGateway) Purchase(ctx context.Context, appUserID string, product StoreProduct) (*entitlement.CustomerInfo, error) {
	body := map[string]any{
		"app_user_id": appUserID,
		"product_id":  product.Identifier,
	}
	var payload subscriberPayload
	if err := g.do(ctx, http.MethodPost, "/receipts", body, &payload); err != nil {
		return nil, err
	}
	return payload.toCustomerInfo(), nil
}

func (g *restGateway) Restore(ctx context.Context, appUserID string) (*entitlement.CustomerInfo, error) {
	var payload subscriberPayload
	path := "/subscribers/" + url.PathEscape(appUserID) + "/restore"
	if err := g.do(ctx, http.MethodPost, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toCustomerInfo(), nil
}

func (g *restGateway) LinkIdentity(ctx context.Context, appUserID, accountID string) (*entitlement.CustomerInfo, error) {
	body := map[string]any{"new_app_user_id": accountID}
	var payload subscriberPayload
	path := "/subscribers/" + url.PathEscape(appUserID) + "/alias"
	err := g.do(ctx, http.MethodPost, path, body, &payload)
	if err != nil {
		return nil, err
	}
	return payload.toCustomerInfo(), nil
}

// apiError is the store API's error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (g *restGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return errors.Join(ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		switch apiErr.Code {
		case "purchase_cancelled":
			return ErrPurchaseCancelled
		case "alias_conflict":
			return ErrAlreadyLinked
		}
		return errors.Join(ErrProviderRequestFailed,
			fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Message))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Join(ErrProviderRequestFailed, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// Wire payloads. The subscriber document keys entitlements by their fixed
// identifier; activity is derived from expiry, renewal state from the
// underlying subscription.

type subscriberPayload struct {
	Subscriber struct {
		OriginalAppUserID string                        `json:"original_app_user_id"`
		Entitlements      map[string]entitlementPayload `json:"entitlements"`
		Subscriptions     map[string]subscriptionInfo   `json:"subscriptions"`
	} `json:"subscriber"`
}

type entitlementPayload struct {
	ProductIdentifier string     `json:"product_identifier"`
	ExpiresDate       *time.Time `json:"expires_date"`
	PurchaseDate      time.Time  `json:"purchase_date"`
	PeriodType        string     `json:"period_type"`
}

type subscriptionInfo struct {
	ExpiresDate    *time.Time `json:"expires_date"`
	PeriodType     string     `json:"period_type"`
	WillRenew      bool       `json:"will_renew"`
	IsSandbox      bool       `json:"is_sandbox"`
	UnsubscribedAt *time.Time `json:"unsubscribe_detected_at"`
}

func (p subscriberPayload) toCustomerInfo() *entitlement.CustomerInfo {
	now := time.Now().UTC()
	ci := &entitlement.CustomerInfo{
		OriginalAppUserID: p.Subscriber.OriginalAppUserID,
		Entitlements: entitlement.Entitlements{
			Active: make(map[string]entitlement.Entitlement),
			All:    make(map[string]entitlement.Entitlement),
		},
	}

	for id, ep := range p.Subscriber.Entitlements {
		sub, hasSub := p.Subscriber.Subscriptions[ep.ProductIdentifier]

		ent := entitlement.Entitlement{
			Identifier:        id,
			ProductIdentifier: ep.ProductIdentifier,
			ExpirationDate:    ep.ExpiresDate,
			PeriodType:        mapPeriodType(ep.PeriodType),
			IsActive:          ep.ExpiresDate == nil || ep.ExpiresDate.After(now),
		}
		if hasSub {
			ent.WillRenew = sub.WillRenew && sub.UnsubscribedAt == nil
			ent.IsSandbox = sub.IsSandbox
		}

		ci.Entitlements.All[id] = ent
		if ent.IsActive {
			ci.Entitlements.Active[id] = ent
			ci.ActiveSubscriptions = append(ci.ActiveSubscriptions, ep.ProductIdentifier)
		}
		if ent.ExpirationDate != nil {
			if ci.LatestExpirationDate == nil || ent.ExpirationDate.After(*ci.LatestExpirationDate) {
				ci.LatestExpirationDate = ent.ExpirationDate
			}
		}
	}
	return ci
}

func mapPeriodType(s string) entitlement.PeriodType {
	switch s {
	case "trial":
		return entitlement.PeriodTrial
	case "intro":
		return entitlement.PeriodIntro
	default:
		return entitlement.PeriodNormal
	}
}

type offeringsPayload struct {
	CurrentOfferingID string `json:"current_offering_id"`
	Offerings         []struct {
		Identifier string `json:"identifier"`
		Packages   []struct {
			Identifier string `json:"identifier"`
			Product    struct {
				Identifier  string `json:"identifier"`
				Title       string `json:"title"`
				Description string `json:"description"`
				PriceCents  int64  `json:"price_cents"`
				Currency    string `json:"currency"`
			} `json:"product"`
		} `json:"packages"`
	} `json:"offerings"`
}

func (p offeringsPayload) toOfferings() []Offering {
	offerings := make([]Offering, 0, len(p.Offerings))
	for _, o := range p.Offerings {
		off := Offering{
			Identifier: o.Identifier,
			Current:    o.Identifier == p.CurrentOfferingID,
		}
		for _, pkg := range o.Packages {
			off.Packages = append(off.Packages, Package{
				Identifier: pkg.Identifier,
				Product: StoreProduct{
					Identifier:  pkg.Product.Identifier,
					Title:       pkg.Product.Title,
					Description: pkg.Product.Description,
					Price: Money{
						Amount:   pkg.Product.PriceCents,
						Currency: pkg.Product.Currency,
					},
				},
			})
		}
		offerings = append(offerings, off)
	}
	return offerings
}
