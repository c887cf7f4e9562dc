package logger

import "log/slog"

// Attribute helpers keep log keys consistent across packages.

// Error records a single error under the key "error".
// Returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the account identifier under the key "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// CorrelationID records a sync correlation identifier under the key
// "correlation_id".
func CorrelationID(id string) slog.Attr {
	return slog.String("correlation_id", id)
}

// Plan records a subscription tier under the key "plan".
func Plan(plan any) slog.Attr {
	return slog.Any("plan", plan)
}

// ProductID records a store product identifier under the key "product_id".
func ProductID(id string) slog.Attr {
	return slog.String("product_id", id)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
