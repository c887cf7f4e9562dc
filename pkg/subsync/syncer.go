package subsync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/billing"
	"github.com/invoicemate/entitlementkit/pkg/entitlement"
	"github.com/invoicemate/entitlementkit/pkg/logger"
)

// Synchronizer links the anonymous billing identity to the authenticated
// account and pushes a fresh entitlement snapshot to the backend-of-record.
// It runs after login or immediately after a successful purchase.
type Synchronizer struct {
	provider billing.Provider
	backend  Backend
	logger   *slog.Logger

	retryAttempts uint64
	retryInterval time.Duration
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the synchronizer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetryPolicy bounds the in-call retry for backend failures.
// attempts is the total attempt count including the first one.
func WithRetryPolicy(attempts uint64, interval time.Duration) Option {
	return func(s *Synchronizer) {
		if attempts > 0 {
			s.retryAttempts = attempts
		}
		if interval > 0 {
			s.retryInterval = interval
		}
	}
}

// NewSynchronizer creates a Synchronizer. Panics if provider or backend is
// nil to fail fast during initialization.
func NewSynchronizer(provider billing.Provider, backend Backend, opts ...Option) *Synchronizer {
	if provider == nil {
		panic("subsync: billing.Provider is required")
	}
	if backend == nil {
		panic("subsync: Backend is required")
	}

	s := &Synchronizer{
		provider:      provider,
		backend:       backend,
		logger:        slog.Default(),
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs the linear link-fetch-persist sequence. session may be nil when
// the purchase happened before login; the sync is then deferred and the next
// post-login call reconciles. Sync never rolls back the platform-side
// purchase: a backend failure is returned as a *SyncError and nothing else
// changes.
//
// Concurrent Syncs take no lock. Safety comes from the backend upsert being
// idempotent and last-write-wins: a later-fetched snapshot is always a
// superset-or-equal of an earlier one.
func (s *Synchronizer) Sync(ctx context.Context, accountID uuid.UUID, session *Session) (*Result, error) {
	correlationID := uuid.NewString()
	log := s.logger.With(logger.CorrelationID(correlationID))

	// Sync is meaningless on platforms without billing capability.
	if !s.provider.Available() {
		return &Result{Plan: entitlement.PlanFree, CorrelationID: correlationID}, nil
	}

	// Linking is best-effort, not a precondition: the identity may already
	// be merged from a previous run.
	if err := s.provider.LinkUser(ctx, accountID); err != nil {
		log.WarnContext(ctx, "identity link failed, continuing sync",
			logger.UserID(accountID),
			logger.Error(err))
	}

	info, err := s.provider.CustomerInfo(ctx)
	if err != nil {
		log.WarnContext(ctx, "customer info fetch failed", logger.Error(err))
		return &Result{Plan: entitlement.PlanFree, CorrelationID: correlationID}, nil
	}
	if info == nil || !info.HasEntitlementHistory() {
		// Nothing ever purchased, nothing worth persisting.
		return &Result{Plan: entitlement.PlanFree, CorrelationID: correlationID}, nil
	}

	if session == nil {
		log.InfoContext(ctx, "sync deferred: no session, will reconcile after next login",
			slog.String("provider_customer_id", info.OriginalAppUserID))
		return &Result{
			Plan:          entitlement.PlanFree,
			Deferred:      true,
			CorrelationID: correlationID,
		}, nil
	}

	resp, err := s.syncWithRetry(ctx, *session, SyncRequest{
		CustomerInfo:       info,
		ProviderCustomerID: info.OriginalAppUserID,
		CorrelationID:      correlationID,
	})
	if err != nil {
		log.ErrorContext(ctx, "backend sync failed, purchase record untouched",
			logger.Error(err))
		return nil, err
	}

	log.InfoContext(ctx, "subscription synced",
		logger.Plan(resp.Plan),
		slog.String("status", string(resp.Status)))

	return &Result{
		Plan:           resp.Plan,
		Status:         resp.Status,
		ExpirationDate: resp.ExpirationDate,
		WillRenew:      resp.WillRenew,
		Synced:         true,
		CorrelationID:  correlationID,
	}, nil
}

// syncWithRetry retries transient backend failures with constant backoff and
// a fixed attempt budget. Client-side rejections stop immediately.
func (s *Synchronizer) syncWithRetry(ctx context.Context, session Session, req SyncRequest) (*SyncResponse, error) {
	var resp *SyncResponse

	operation := func() error {
		var err error
		resp, err = s.backend.SyncSubscription(ctx, session, req)
		if err == nil {
			return nil
		}

		var syncErr *SyncError
		if errors.As(err, &syncErr) && !syncErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), s.retryAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}
