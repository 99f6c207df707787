// Package logger builds *slog.Logger instances for the API server, the
// worker and the CLI.
//
// New applies Option values on top of JSON/INFO defaults and wraps the chosen
// slog handler in LogHandlerDecorator, which runs the registered
// ContextExtractor callbacks on every record. Registering
// tenant.LoggerExtractor and requestid.LoggerExtractor makes every line
// written inside a request or job carry tenant_id and request_id:
//
//	log := logger.NewFromConfig(cfg,
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
//
// Attribute helpers in attr.go keep key names consistent. Error and Errors
// return an empty attribute for nil errors, so they can be passed
// unconditionally.
package logger
