package redis

import "time"

// Config describes the Redis connection and the channel transitions are
// published to. Fields are populated from the environment by pkg/config.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                  // e.g. "redis://:password@localhost:6379/0"; empty disables publishing
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"fsm:transitions"` // pub/sub channel for transition records
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
