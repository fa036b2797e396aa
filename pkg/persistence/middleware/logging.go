package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/pkg/session"
)

type loggingMiddleware struct {
	next   session.Store
	logger *slog.Logger
}

// NewLoggingMiddleware creates a middleware that logs every store operation
// with its duration and outcome.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next session.Store) session.Store {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, sess *session.Session) error {
	start := time.Now()
	err := m.next.Save(ctx, sess)
	m.log("save", sess.ID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*session.Session, error) {
	start := time.Now()
	sess, err := m.next.Load(ctx, id)
	m.log("load", id, start, err)
	return sess, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log("delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return ids, err
}

func (m *loggingMiddleware) log(op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "id", id)
	}

	// A missing session is a normal outcome, not a store failure.
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		attrs = append(attrs, "error", err)
		m.logger.Error("session store operation failed", attrs...)
		return
	}
	m.logger.Debug("session store operation", attrs...)
}
