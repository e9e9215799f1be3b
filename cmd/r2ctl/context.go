package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/clientcli"
	"github.com/sagarc03/r2ctl/config"
)

// session is everything a command needs once configuration is resolved.
// It owns the client cache for the lifetime of the invocation.
type session struct {
	cfg        *config.Config
	logger     *slog.Logger
	logFile    io.Closer
	cache      *r2ctl.ClientCache
	formatter  clientcli.Formatter
	configPath string
	stdin      io.Reader
	stdout     io.Writer
	progress   io.Writer // nil disables progress bars
	confirm    confirmFunc
}

// sessionKey is the context key for storing the session.
type sessionKey struct{}

// withSession returns a new context with the session stored.
func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFromContext retrieves the session from context.
// Returns an error if session is not found.
func sessionFromContext(ctx context.Context) (*session, error) {
	s, ok := ctx.Value(sessionKey{}).(*session)
	if !ok || s == nil {
		return nil, errors.New("session not found in context")
	}
	return s, nil
}

// client returns the storage client for the configured connection,
// creating it on first use.
func (s *session) client(ctx context.Context) (r2ctl.S3API, error) {
	if err := s.cfg.ValidateConnection(); err != nil {
		return nil, err
	}
	region, err := r2ctl.ParseRegion(s.cfg.Connection.Region)
	if err != nil {
		return nil, err
	}

	key := r2ctl.NewConnectionKey(
		s.cfg.Connection.EndpointURL,
		s.cfg.Connection.AccessKeyID,
		s.cfg.Connection.SecretAccessKey,
		region,
	)
	return s.cache.Get(ctx, key)
}

// progressLogInterval bounds debug progress lines in log files.
const progressLogInterval = time.Second

// actionOptions wires the session logger and progress output into an action.
func (s *session) actionOptions() []r2ctl.Option {
	return []r2ctl.Option{
		r2ctl.WithLogger(s.logger),
		r2ctl.WithObserverFactory(r2ctl.NewObserverFactory(
			r2ctl.WithObserverLogger(s.logger),
			r2ctl.WithProgressWriter(s.progress),
			r2ctl.WithLogInterval(progressLogInterval),
		)),
	}
}

func (s *session) close() {
	if s.logFile == nil {
		return
	}
	if err := s.logFile.Close(); err != nil {
		s.logger.Warn("failed to close log file", "err", err)
	}
}
