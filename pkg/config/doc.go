// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads .env files into the
// process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs annotated with `env` and `envDefault` tags.
// Parsed values are cached per type and prefix, so repeated Load calls are
// cheap and always return the same configuration.
//
//	type Settings struct {
//	    Env       string        `env:"APP_ENV" envDefault:"development"`
//	    StepDelay time.Duration `env:"STEP_DELAY" envDefault:"250ms"`
//	}
//
//	var s Settings
//	config.MustLoad(&s)
//
// Errors can be compared with errors.Is against ErrParsingConfig,
// ErrLoadingEnvFile and ErrNilPointer. Reset clears the cache, which is
// mostly useful in tests.
package config
