package share

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// IsContextClosedError reports whether err only says the request went away.
func IsContextClosedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Capture reports an unexpected error to sentry and the log. Closed contexts are not reported.
func Capture(err error, fields ...zap.Field) {
	if err == nil || IsContextClosedError(err) {
		return
	}

	sentry.CaptureException(err)
	zap.L().Error(
		"unexpected error",
		append(fields, zap.String("stack", fmtStack(err)), zap.Error(err))...,
	)
}

func fmtStack(err error) string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	if !errors.As(err, &st) {
		err = errors.WithStack(err)
	}
	return fmt.Sprintf("%+v", err)
}
