// Package logger builds *slog.Logger instances for the auth services and
// provides attribute helpers so every component logs the same keys.
//
// New assembles a text or JSON handler from functional options. Context
// extractors add request-scoped values (client IP, request id) to every record
// logged with a context.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "authd"),
//		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
//	)
//	log.InfoContext(ctx, "code issued", logger.PersonID(id), logger.Component("otp"))
//
// Attributes keyed password, code, token, digest, pepper or secret are written
// as [redacted]. Callers still must not pass plaintext secrets under other keys.
package logger
