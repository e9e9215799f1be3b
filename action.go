package r2ctl

import (
	"log/slog"
)

type options struct {
	logger          *slog.Logger
	observerFactory ObserverFactory
}

// Option configures an action type.
type Option func(*options)

// WithLogger sets the logger used by an action.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserverFactory sets how transfer observers are built. The default
// draws a progress bar on stderr.
func WithObserverFactory(factory ObserverFactory) Option {
	return func(o *options) {
		if factory != nil {
			o.observerFactory = factory
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observerFactory == nil {
		o.observerFactory = NewObserverFactory(WithObserverLogger(o.logger))
	}
	return o
}

// fail logs the failure and returns it as an *ActionError.
func fail(logger *slog.Logger, op, message string, cause error, attrs ...any) *ActionError {
	err := &ActionError{Op: op, Message: message, Err: cause}
	args := append([]any{"op", op, "err", cause}, attrs...)
	if code := apiErrorCode(cause); code != "" {
		args = append(args, "code", code)
	}
	logger.Error(message, args...)
	return err
}

// closeObserver closes o and logs a close failure without masking the
// transfer result.
func closeObserver(logger *slog.Logger, o TransferObserver) {
	if err := o.Close(); err != nil {
		logger.Warn("failed to close transfer observer", "err", err)
	}
}
