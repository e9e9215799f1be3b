package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/sagarc03/r2ctl"
)

type loggingOptions struct {
	Level   string
	Dir     string // empty disables the log file
	Command string
	Now     time.Time
}

// setupLogging builds the console logger and, when a log directory is
// configured, a per-command JSON log file that records everything at debug
// level. The returned closer is nil when no file was opened.
func setupLogging(console io.Writer, opts loggingOptions) (*slog.Logger, io.Closer, error) {
	var h slog.Handler = tint.NewHandler(console, &tint.Options{
		Level:       parseLevel(opts.Level),
		TimeFormat:  "15:04:05.000",
		NoColor:     !isTerminal(console),
		ReplaceAttr: redactSecrets,
	})

	var closer io.Closer
	if opts.Dir != "" {
		f, err := openLogFile(opts.Dir, opts.Command, opts.Now)
		if err != nil {
			return nil, nil, err
		}
		closer = f

		fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return redactSecrets(groups, a)
			},
		})
		h = &fanoutHandler{handlers: []slog.Handler{h, fileHandler}}
	}

	logger := slog.New(h).With("command", opts.Command)
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(
		slog.NewLogLogger(
			slog.Default().Handler(),
			slog.LevelInfo,
		).Writer(),
	)

	return logger, closer, nil
}

// openLogFile creates <dir>/<YYYYMMDD-HHMMSS>-<command>.log.
func openLogFile(dir, command string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s.log", now.Format("20060102-150405"), command)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// redactSecrets masks string attributes whose key names a secret.
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	key := strings.ToLower(a.Key)
	if strings.Contains(key, "secret") || strings.Contains(key, "password") {
		return slog.String(a.Key, r2ctl.MaskSecret(a.Value.String()))
	}
	return a
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// fanoutHandler sends every record to each handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}
