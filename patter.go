package patter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/internal/runtime"
	"github.com/patterflow/patter/internal/session"
	"github.com/patterflow/patter/internal/validator"
	"github.com/patterflow/patter/pkg/adapters/memory"
	"github.com/patterflow/patter/pkg/domain"
	"github.com/patterflow/patter/pkg/ports"
)

// Engine is the high-level entry point for the Patter library. It wires the
// session service and the delivery queue over a sequence source and exposes a
// simplified API for hosts.
type Engine struct {
	source  ports.SequenceSource
	store   ports.DataStore
	library ports.ContentLibrary
	sink    ports.EventSink
	clock   ports.Clock
	logger  *slog.Logger
	hooks   []*domain.Hooks

	queueOpts []runtime.Option
	queue     *runtime.Queue
	session   *session.Service
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects the conversation data store. Defaults to an in-memory
// store; hosts that need durability supply the redis adapter.
func WithStore(store ports.DataStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithContentLibrary injects the reusable content-block library.
func WithContentLibrary(library ports.ContentLibrary) Option {
	return func(e *Engine) { e.library = library }
}

// WithEventSink routes trigger actions to an external consumer.
func WithEventSink(sink ports.EventSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers lifecycle callbacks. May be given more than once; all
// registered sets are invoked in order.
func WithHooks(hooks *domain.Hooks) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, hooks) }
}

// WithClock injects the clock used for pacing and temporal session state.
func WithClock(clock ports.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithInstantDelivery collapses all pacing delays to zero. Useful for
// request/response hosts and tests.
func WithInstantDelivery(instant bool) Option {
	return func(e *Engine) {
		e.queueOpts = append(e.queueOpts, runtime.WithInstantDelivery(instant))
	}
}

// WithPacing tunes the adaptive per-message delay.
func WithPacing(perWord, min, max time.Duration) Option {
	return func(e *Engine) {
		e.queueOpts = append(e.queueOpts, runtime.WithPacing(perWord, min, max))
	}
}

// New initializes a Patter Engine over the given sequence source.
func New(source ports.SequenceSource, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("a sequence source is required")
	}

	e := &Engine{
		source: source,
		clock:  wallClock{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	e.session = session.New(e.store, e.clock, session.WithLogger(e.logger))

	queueOpts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithClock(e.clock),
	}
	if merged := domain.MergeHooks(e.hooks...); merged != nil {
		queueOpts = append(queueOpts, runtime.WithHooks(*merged))
	}
	queueOpts = append(queueOpts, e.queueOpts...)
	e.queue = runtime.NewQueue(e.source, e.store, e.library, e.sink, queueOpts...)

	return e, nil
}

// StartSession refreshes the temporal session state (visit counters, active
// day, deadline) and enters the given sequence. The first deliverable messages
// begin flowing immediately; interactive messages surface through Pending.
func (e *Engine) StartSession(ctx context.Context, sequenceID string) error {
	if err := e.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return e.queue.EnterSequence(ctx, sequenceID)
}

// ResolveChoice answers the pending choice message by option index.
func (e *Engine) ResolveChoice(ctx context.Context, index int) error {
	return e.queue.ResolveChoice(ctx, index)
}

// ResolveText answers the pending free-text message.
func (e *Engine) ResolveText(ctx context.Context, text string) error {
	return e.queue.ResolveText(ctx, text)
}

// Pending returns the interactive message the conversation is suspended on.
func (e *Engine) Pending() (*domain.Message, bool) {
	return e.queue.Pending()
}

// Log returns the delivered transcript so far.
func (e *Engine) Log() []domain.Message {
	return e.queue.Log()
}

// State reports the queue state: idle, draining, suspended or disposed.
func (e *Engine) State() string {
	return string(e.queue.State())
}

// Settle blocks until delivery pauses and reports the settled state: idle
// (the flow ran out), suspended (an interactive message is pending) or
// disposed. Request/response hosts call it after StartSession, ResolveChoice
// and ResolveText.
func (e *Engine) Settle() string {
	return string(e.queue.Settle())
}

// ActiveSequenceID returns the id of the sequence currently being delivered.
func (e *Engine) ActiveSequenceID() string {
	return e.queue.ActiveSequenceID()
}

// Store exposes the conversation data store, so hosts can seed configuration
// keys before starting a session.
func (e *Engine) Store() ports.DataStore {
	return e.store
}

// Dispose terminates the conversation. The engine cannot be restarted.
func (e *Engine) Dispose() {
	e.queue.Dispose()
}

// Validate loads every sequence the source lists and runs structural
// validation, returning one result per sequence.
func (e *Engine) Validate(ctx context.Context) ([]domain.ValidationResult, error) {
	ids, err := e.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}

	results := make([]domain.ValidationResult, 0, len(ids))
	for _, id := range ids {
		seq, err := e.source.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load sequence %s: %w", id, err)
		}
		results = append(results, validator.Validate(seq))
	}
	return results, nil
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
