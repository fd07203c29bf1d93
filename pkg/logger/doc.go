// Package logger builds *slog.Logger values with functional options and
// provides attribute helpers shared across the module.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler so that attributes carried by the context (WithAttrsContext) or
// pulled out of it by ContextExtractor callbacks are added to every record
// logged through the *Context methods.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(logger.ParseEnvironment(os.Getenv("APP_ENV")), "fsmdemo"),
//	)
//
//	ctx = logger.WithAttrsContext(ctx, slog.String("run_id", runID))
//	log.InfoContext(ctx, "switched state", logger.Machine("door"), logger.State(Open))
//
// *slog.Logger satisfies statemachine.Logger, so the same logger is handed to
// machines with statemachine.WithLogger.
//
// # Configuration
//
//   - WithEnvironment / WithDevelopment / WithProduction: presets (text+debug
//     for development, JSON+info otherwise).
//   - WithFormat, WithLevel, WithOutput: override individual settings.
//   - WithAttr: static attributes.
//   - WithContextExtractors / WithContextValue: attributes taken from context.
//
// Error and Errors return an empty attribute for nil errors so they can be
// passed unconditionally.
package logger
