// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/reqbind/core/logger"
//
//	// Development: text format, debug level
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level
//	log := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Attribute Helpers
//
// Helpers return slog.Attr values. Helpers that take errors or identifiers
// return an empty Attr for nil or empty input, which slog drops:
//
//	log.Error("Binding rejected",
//		logger.Component("binder"),
//		logger.Target("api.CreateOrder"),
//		logger.Origin("json"),
//		logger.Error(err),
//	)
//
//	log.Info("Request processed",
//		logger.Method("POST"),
//		logger.Path("/api/users"),
//		logger.StatusCode(201),
//		logger.Elapsed(start),
//	)
package logger
