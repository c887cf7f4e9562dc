package subsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// Backend is the backend-of-record's sync endpoint.
type Backend interface {
	// SyncSubscription upserts the caller's subscription row from the given
	// snapshot. The upsert is keyed by user id, so repeated calls with an
	// unchanged snapshot leave the row in the same final state.
	SyncSubscription(ctx context.Context, session Session, req SyncRequest) (*SyncResponse, error)
}

// SyncRequest carries one provider snapshot to the backend.
type SyncRequest struct {
	CustomerInfo       *entitlement.CustomerInfo
	ProviderCustomerID string
	CorrelationID      string
}

// SyncResponse is the backend's canonical view after the upsert.
type SyncResponse struct {
	Plan           entitlement.Plan
	Status         Status
	ExpirationDate *time.Time
	WillRenew      bool
}

// httpBackend calls POST {base}/sync-{provider} with bearer-token auth.
type httpBackend struct {
	baseURL  string
	provider string
	http     *retryablehttp.Client
}

// NewHTTPBackend creates the HTTP implementation of Backend.
// The provider name selects the endpoint, e.g. "revenuecat" for
// POST /sync-revenuecat.
func NewHTTPBackend(cfg Config) (Backend, error) {
	if cfg.BackendURL == "" {
		return nil, ErrMissingBackendURL
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.HTTPRetryMax
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil

	return &httpBackend{
		baseURL:  cfg.BackendURL,
		provider: cfg.Provider,
		http:     rc,
	}, nil
}

type syncRequestBody struct {
	CustomerInfo       customerInfoBody `json:"customerInfo"`
	ProviderCustomerID string           `json:"providerCustomerId"`
	CorrelationID      string           `json:"correlationId"`
}

type customerInfoBody struct {
	OriginalAppUserID    string                     `json:"originalAppUserId"`
	ActiveSubscriptions  []string                   `json:"activeSubscriptions"`
	Entitlements         map[string]entitlementBody `json:"entitlements"`
	LatestExpirationDate *time.Time                 `json:"latestExpirationDate,omitempty"`
}

type entitlementBody struct {
	IsActive          bool       `json:"isActive"`
	ProductIdentifier string     `json:"productIdentifier"`
	ExpirationDate    *time.Time `json:"expirationDate,omitempty"`
	PeriodType        string     `json:"periodType"`
	WillRenew         bool       `json:"willRenew"`
	IsSandbox         bool       `json:"isSandbox"`
}

type syncResponseBody struct {
	Plan           string     `json:"plan"`
	Status         string     `json:"status"`
	ExpirationDate *time.Time `json:"expirationDate"`
	WillRenew      bool       `json:"willRenew"`
}

type syncErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (b *httpBackend) SyncSubscription(ctx context.Context, session Session, req SyncRequest) (*SyncResponse, error) {
	body := syncRequestBody{
		CustomerInfo:       toCustomerInfoBody(req.CustomerInfo),
		ProviderCustomerID: req.ProviderCustomerID,
		CorrelationID:      req.CorrelationID,
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode sync request: %w", err)
	}

	url := b.baseURL + "/sync-" + b.provider
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build sync request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+session.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(httpReq)
	if err != nil {
		return nil, &SyncError{
			CorrelationID: req.CorrelationID,
			Message:       "backend unreachable",
			Err:           err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		var errBody syncErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, &SyncError{
			CorrelationID: req.CorrelationID,
			StatusCode:    resp.StatusCode,
			Message:       errBody.Error,
			Details:       errBody.Details,
		}
	}

	var out syncResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &SyncError{
			CorrelationID: req.CorrelationID,
			Message:       "malformed backend response",
			Err:           err,
		}
	}

	plan, err := entitlement.ParsePlan(out.Plan)
	if err != nil {
		return nil, &SyncError{
			CorrelationID: req.CorrelationID,
			Message:       "backend returned unknown plan",
			Err:           err,
		}
	}

	return &SyncResponse{
		Plan:           plan,
		Status:         Status(out.Status),
		ExpirationDate: out.ExpirationDate,
		WillRenew:      out.WillRenew,
	}, nil
}

func toCustomerInfoBody(ci *entitlement.CustomerInfo) customerInfoBody {
	body := customerInfoBody{
		Entitlements: make(map[string]entitlementBody),
	}
	if ci == nil {
		return body
	}

	body.OriginalAppUserID = ci.OriginalAppUserID
	body.ActiveSubscriptions = ci.ActiveSubscriptions
	body.LatestExpirationDate = ci.LatestExpirationDate

	// All, not Active: expired entitlements must reach the backend so it can
	// transition a previously-active row to expired/cancelled.
	for id, ent := range ci.Entitlements.All {
		body.Entitlements[id] = entitlementBody{
			IsActive:          ent.IsActive,
			ProductIdentifier: ent.ProductIdentifier,
			ExpirationDate:    ent.ExpirationDate,
			PeriodType:        string(ent.PeriodType),
			WillRenew:         ent.WillRenew,
			IsSandbox:         ent.IsSandbox,
		}
	}
	return body
}
