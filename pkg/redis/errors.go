package redis

import "errors"

var (
	// ErrInvalidURL is returned by Connect for an empty or unparsable REDIS_URL.
	ErrInvalidURL = errors.New("redis: invalid connection url")

	// ErrNotReady is returned by Connect when every PING attempt failed.
	ErrNotReady = errors.New("redis: server not ready")

	// ErrHealthcheckFailed wraps the PING error of a Healthcheck probe.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")

	// ErrPublishFailed wraps errors of a ChangePublisher handler. It reaches
	// the caller of the transition that triggered the publish.
	ErrPublishFailed = errors.New("redis: failed to publish state transition")
)
