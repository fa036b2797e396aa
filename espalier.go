package espalier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aretw0/espalier/internal/metrics"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/modthree"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/aretw0/espalier/pkg/session"
)

// Service is the high-level entry point for the espalier library.
// It resolves machines by name, runs inputs against fresh instances, and
// orchestrates durable sessions on top of a pluggable store.
type Service struct {
	registry *registry.Registry
	store    session.Store
	locker   session.Locker
	sessions *session.Manager
	metrics  *metrics.Metrics
	hooks    automaton.Hooks
	logger   *slog.Logger
}

// Result describes one accepted run.
type Result struct {
	Machine  string          `json:"machine"`
	Input    string          `json:"input"`
	State    automaton.State `json:"state"`
	Accepted bool            `json:"accepted"`
	Steps    int             `json:"steps"`
}

// ErrMachineMismatch is returned when a session ID is reused with a machine
// other than the one it was started on.
var ErrMachineMismatch = errors.New("machine mismatch")

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithRegistry replaces the default machine catalog.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Service) {
		s.registry = r
	}
}

// WithStore injects a session store, e.g. the Redis adapter. The default
// keeps sessions in process memory.
func WithStore(store session.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker enables distributed locking for session operations across
// replicas.
func WithLocker(locker session.Locker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithHooks registers observability callbacks fired by every machine
// instance the service builds.
func WithHooks(hooks automaton.Hooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithMetrics shares a collector set between services.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New initializes a Service. Without options it serves the built-in machines
// with in-memory sessions and discards logs.
func New(opts ...Option) (*Service, error) {
	s := &Service{}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	managerOpts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(s.locker))
	}
	s.sessions = session.NewManager(s.store, managerOpts...)

	return s, nil
}

// Machines returns the registered machine names in sorted order.
func (s *Service) Machines() []string {
	return s.registry.Names()
}

// Definition resolves a machine name to its five-tuple.
func (s *Service) Definition(name string) (automaton.Definition, error) {
	return s.registry.Get(name)
}

// Register validates and adds a machine definition under name.
func (s *Service) Register(name string, def automaton.Definition) error {
	if err := s.registry.Register(name, def); err != nil {
		return err
	}
	s.logger.Info("machine registered", "machine", name)
	return nil
}

// Run feeds input to a fresh instance of the named machine and returns the
// terminal state. The result depends only on the input. Failures keep the
// engine's error kinds: *automaton.InputError for bad symbols,
// *automaton.RejectedError for non-accepting terminal states. Input must
// pass CheckInput first.
func (s *Service) Run(ctx context.Context, machine, input string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckInput(input); err != nil {
		return nil, err
	}

	def, err := s.registry.Get(machine)
	if err != nil {
		return nil, err
	}

	eng, err := automaton.New(def, s.instanceOpts(machine)...)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	state, runErr := eng.Run(input)
	steps := s.observeRun(machine, input, runErr, time.Since(started))

	if runErr != nil {
		return nil, runErr
	}

	return &Result{
		Machine:  machine,
		Input:    input,
		State:    state,
		Accepted: true,
		Steps:    steps,
	}, nil
}

// Remainder computes value(input) mod 3 using the built-in binary machine.
func (s *Service) Remainder(ctx context.Context, input string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := CheckInput(input); err != nil {
		return 0, err
	}

	m, err := modthree.New(s.instanceOpts(registry.ModThree)...)
	if err != nil {
		return 0, err
	}

	started := time.Now()
	r, err := m.Remainder(input)
	s.observeRun(registry.ModThree, input, err, time.Since(started))

	if err != nil {
		return 0, err
	}
	return r, nil
}

// StartSession creates a durable session for the named machine, positioned
// at its start state. An empty id gets a generated one. Starting an existing
// session resumes it instead; the machine names must then match.
func (s *Service) StartSession(ctx context.Context, machine, id string) (*session.Session, error) {
	def, err := s.registry.Get(machine)
	if err != nil {
		return nil, err
	}

	if id == "" {
		id = uuid.NewString()
	}

	sess, err := s.sessions.LoadOrStart(ctx, id, machine, def.Start)
	if err != nil {
		return nil, err
	}
	if sess.Machine != machine {
		return nil, fmt.Errorf("%w: session %s belongs to machine %q, not %q", ErrMachineMismatch, id, sess.Machine, machine)
	}

	s.logger.Info("session started", "session_id", sess.ID, "machine", machine, "state", sess.Current)
	return sess, nil
}

// Session loads a session by ID.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Load(ctx, id)
}

// Sessions lists the IDs of all persisted sessions.
func (s *Service) Sessions(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}

// StepSession consumes one symbol in the session's machine and persists the
// new position. On a step failure the session is left untouched.
func (s *Service) StepSession(ctx context.Context, id string, sym automaton.Symbol) (*session.Session, error) {
	var out *session.Session
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		store := s.sessions.Store()

		sess, err := store.Load(ctx, id)
		if err != nil {
			return err
		}

		eng, err := s.instance(sess.Machine)
		if err != nil {
			return err
		}
		if err := eng.Restore(sess.Current); err != nil {
			return err
		}
		if err := eng.Step(sym); err != nil {
			return err
		}

		sess.Advance(eng.Current())
		if err := store.Save(ctx, sess); err != nil {
			return err
		}

		s.metrics.AddSteps(sess.Machine, 1)
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session stepped", "session_id", id, "symbol", sym, "state", out.Current)
	return out, nil
}

// ResetSession puts the session back at its machine's start state.
func (s *Service) ResetSession(ctx context.Context, id string) (*session.Session, error) {
	var out *session.Session
	err := s.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		store := s.sessions.Store()

		sess, err := store.Load(ctx, id)
		if err != nil {
			return err
		}

		def, err := s.registry.Get(sess.Machine)
		if err != nil {
			return err
		}

		sess.Rewind(def.Start)
		if err := store.Save(ctx, sess); err != nil {
			return err
		}

		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session reset", "session_id", id, "state", out.Current)
	return out, nil
}

// DeleteSession removes a session. Deleting an unknown ID is not an error.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", "session_id", id)
	return nil
}

// MetricsHandler serves the service's Prometheus registry.
func (s *Service) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

// instance builds a fresh, observed instance of the named machine.
func (s *Service) instance(machine string) (*automaton.Automaton, error) {
	def, err := s.registry.Get(machine)
	if err != nil {
		return nil, err
	}
	return automaton.New(def, s.instanceOpts(machine)...)
}

func (s *Service) instanceOpts(machine string) []automaton.Option {
	return []automaton.Option{
		automaton.WithLogger(s.logger.With("machine", machine)),
		automaton.WithHooks(s.hooks),
	}
}

// observeRun records metrics and a summary log line for one run, returning
// how many symbols were consumed before it ended.
func (s *Service) observeRun(machine, input string, err error, elapsed time.Duration) int {
	steps := utf8.RuneCountInString(input)

	var inputErr *automaton.InputError
	var charErr *modthree.InvalidCharacterError
	switch {
	case errors.As(err, &inputErr):
		steps = inputErr.Pos
	case errors.As(err, &charErr):
		steps = 0
	}

	s.metrics.ObserveRun(machine, err, elapsed, steps)
	s.logger.Info("run completed",
		"machine", machine,
		"outcome", metrics.Outcome(err),
		"steps", steps,
		"elapsed", elapsed,
	)
	return steps
}
