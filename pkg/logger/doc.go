// Package logger builds structured slog loggers with consistent attribute
// keys for the billing and sync packages.
//
// The factory defaults to JSON at info level. Context extractors inject
// request-scoped values, such as a correlation id, into every record logged
// with that context:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttrs(slog.String("service", "entitlementkit")),
//		logger.WithContextValue("correlation_id", ctxKeyCorrelationID),
//	)
//	logger.SetAsDefault(log)
package logger
