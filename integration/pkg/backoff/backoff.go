package backoff

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry retries fn with an exponential backoff for up to two minutes,
// shortcut changes take a while to be visible through the API.
func Retry(fn backoff.Operation) error {
	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = 2 * time.Minute
	eb.MaxInterval = 10 * time.Second
	return backoff.Retry(fn, eb)
}

// Permanent stops retrying and returns err.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
