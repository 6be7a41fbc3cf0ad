package share

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// InitSentry configures the sentry hub. An empty dsn leaves capturing as a no-op.
func InitSentry(dsn string) error {
	err := sentry.Init(
		sentry.ClientOptions{
			Dsn:           dsn,
			HTTPTransport: new(http.Transport),
		},
	)
	return errors.WithStack(err)
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
