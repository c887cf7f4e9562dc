package billing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicemate/entitlementkit/pkg/billing"
	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

func gatewayClient(t *testing.T, handler http.Handler) *billing.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := billing.Config{
		APIKey:         "secret-key",
		BaseURL:        server.URL,
		ProProductID:   "im_pro_monthly",
		TradeProductID: "im_trade_monthly",
		RequestTimeout: 5 * time.Second,
		RetryMax:       0,
	}
	client, err := billing.NewClient(cfg)
	require.NoError(t, err)
	require.NoError(t, client.Configure(context.Background(), "user-1"))
	return client
}

func TestRESTGateway_Subscriber(t *testing.T) {
	t.Parallel()

	future := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	past := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/subscribers/user-1", r.URL.Path)

		fmt.Fprintf(w, `{
			"subscriber": {
				"original_app_user_id": "user-1",
				"entitlements": {
					"pro": {
						"product_identifier": "im_pro_monthly",
						"expires_date": %q,
						"period_type": "trial"
					},
					"trade": {
						"product_identifier": "im_trade_monthly",
						"expires_date": %q,
						"period_type": "normal"
					}
				},
				"subscriptions": {
					"im_pro_monthly": {"expires_date": %q, "will_renew": true, "is_sandbox": true},
					"im_trade_monthly": {"expires_date": %q, "will_renew": false}
				}
			}
		}`, future.Format(time.RFC3339), past.Format(time.RFC3339),
			future.Format(time.RFC3339), past.Format(time.RFC3339))
	})

	client := gatewayClient(t, handler)

	info, err := client.CustomerInfo(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "user-1", info.OriginalAppUserID)
	assert.Len(t, info.Entitlements.All, 2)
	require.Len(t, info.Entitlements.Active, 1)

	pro := info.Entitlements.Active["pro"]
	assert.True(t, pro.IsActive)
	assert.Equal(t, "im_pro_monthly", pro.ProductIdentifier)
	assert.Equal(t, entitlement.PeriodTrial, pro.PeriodType)
	assert.True(t, pro.WillRenew)
	assert.True(t, pro.IsSandbox)

	trade := info.Entitlements.All["trade"]
	assert.False(t, trade.IsActive)

	require.NotNil(t, info.LatestExpirationDate)
	assert.True(t, info.LatestExpirationDate.Equal(future))
	assert.Equal(t, []string{"im_pro_monthly"}, info.ActiveSubscriptions)
}

func TestRESTGateway_PurchaseCancelled(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/subscribers/user-1/offerings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current_offering_id": "default",
			"offerings": []map[string]any{{
				"identifier": "default",
				"packages": []map[string]any{{
					"identifier": "monthly",
					"product":    map[string]any{"identifier": "im_pro_monthly", "price_cents": 599, "currency": "GBP"},
				}},
			}},
		})
	})
	mux.HandleFunc("/receipts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "purchase_cancelled", "message": "sheet dismissed"})
	})

	client := gatewayClient(t, mux)

	result, err := client.PurchaseProduct(context.Background(), "im_pro_monthly")
	require.NoError(t, err)
	assert.True(t, result.UserCancelled)
}

func TestRESTGateway_AliasConflictIsIdempotent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/subscribers/user-1/alias", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["new_app_user_id"])

		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "alias_conflict", "message": "already aliased"})
	})

	client := gatewayClient(t, mux)

	err := client.LinkUser(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestRESTGateway_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "invalid_api_key", "message": "bad credentials"})
	})

	client := gatewayClient(t, handler)

	_, err := client.CustomerInfo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, billing.ErrProviderRequestFailed)
	assert.Contains(t, err.Error(), "bad credentials")
}
