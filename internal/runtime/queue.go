// Package runtime implements the execution half of the engine: the message
// delivery queue, the route processor, and the data-action processor.
//
// The queue is the only stateful component. One drain goroutine per queue
// walks the backlog strictly in order, paces delivery against the injected
// clock, suspends on interactive messages, and resumes when the host supplies
// a resolution. All runtime failures degrade to logged warnings; authored
// content can never crash the interpreter.
package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patterflow/patter/internal/condition"
	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/internal/template"
	"github.com/patterflow/patter/pkg/domain"
	"github.com/patterflow/patter/pkg/ports"
)

// State is the delivery queue's lifecycle state.
type State string

const (
	// StateIdle means the backlog is empty and no drain loop is running.
	StateIdle State = "idle"
	// StateDraining means the drain loop is walking the backlog.
	StateDraining State = "draining"
	// StateSuspended means delivery is blocked on an interactive message.
	StateSuspended State = "suspended"
	// StateDisposed is terminal; no further transitions are possible.
	StateDisposed State = "disposed"
)

// Pacing defaults for the adaptive per-message delay.
const (
	defaultPerWord  = 200 * time.Millisecond
	defaultMinDelay = 700 * time.Millisecond
	defaultMaxDelay = 3500 * time.Millisecond
)

// Queue drives one conversation run.
type Queue struct {
	source   ports.SequenceSource
	store    ports.DataStore
	library  ports.ContentLibrary
	clock    ports.Clock
	resolver *template.Resolver
	actions  *ActionProcessor
	logger   *slog.Logger
	hooks    domain.Hooks

	instant  bool
	perWord  time.Duration
	minDelay time.Duration
	maxDelay time.Duration

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	seq       *domain.Sequence
	backlog   []domain.Message
	log       []domain.Message
	pending   *domain.Message
	delivered map[string]struct{}
	done      chan struct{}
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) { q.logger = logger }
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(q *Queue) { q.hooks = hooks }
}

// WithClock injects the pacing clock. Tests use a virtual clock.
func WithClock(clock ports.Clock) Option {
	return func(q *Queue) { q.clock = clock }
}

// WithInstantDelivery collapses every pacing delay to zero.
func WithInstantDelivery(instant bool) Option {
	return func(q *Queue) { q.instant = instant }
}

// WithPacing tunes the adaptive delay: perWord is the pace added for each
// word of resolved text, min and max clamp the result.
func WithPacing(perWord, min, max time.Duration) Option {
	return func(q *Queue) {
		q.perWord, q.minDelay, q.maxDelay = perWord, min, max
	}
}

// WithResolver replaces the template resolver (custom formatters).
func WithResolver(r *template.Resolver) Option {
	return func(q *Queue) { q.resolver = r }
}

// NewQueue creates a delivery queue over the conversation's collaborators.
// library and sink may be nil.
func NewQueue(source ports.SequenceSource, store ports.DataStore, library ports.ContentLibrary, sink ports.EventSink, opts ...Option) *Queue {
	q := &Queue{
		source:    source,
		store:     store,
		library:   library,
		clock:     systemClock{},
		resolver:  template.NewResolver(),
		logger:    logging.NewNop(),
		perWord:   defaultPerWord,
		minDelay:  defaultMinDelay,
		maxDelay:  defaultMaxDelay,
		state:     StateIdle,
		delivered: make(map[string]struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.cond = sync.NewCond(&q.mu)
	q.actions = NewActionProcessor(store, sink, q.logger)
	return q
}

// setState transitions the lifecycle state and wakes Settle waiters. The
// caller must hold q.mu.
func (q *Queue) setState(s State) {
	q.state = s
	q.cond.Broadcast()
}

// EnterSequence resolves a sequence and enqueues its first message.
func (q *Queue) EnterSequence(ctx context.Context, sequenceID string) error {
	seq, err := q.source.Load(ctx, sequenceID)
	if err != nil {
		return err
	}
	first, ok := seq.First()
	if !ok {
		return domain.ErrMessageNotFound
	}

	q.mu.Lock()
	if q.state == StateDisposed {
		q.mu.Unlock()
		return domain.ErrQueueDisposed
	}
	q.seq = seq
	q.mu.Unlock()

	q.emitSequenceEnter(ctx, seq.ID)
	q.Enqueue(ctx, *first)
	return nil
}

// Enqueue appends messages to the backlog and ensures a drain loop is
// running. Enqueuing while draining is additive, never preemptive; enqueuing
// after disposal is a no-op.
func (q *Queue) Enqueue(ctx context.Context, msgs ...domain.Message) {
	q.mu.Lock()
	if q.state == StateDisposed {
		q.mu.Unlock()
		return
	}
	q.backlog = append(q.backlog, msgs...)
	start := q.state == StateIdle
	if start {
		q.setState(StateDraining)
	}
	q.mu.Unlock()

	if start {
		go q.drain(context.WithoutCancel(ctx))
	}
}

// ResolveChoice resumes a queue suspended on a choice message. The logged
// message is replaced by an annotated copy marking the selection; the
// choice's value is written to the message's store key; then the choice's
// destination is followed.
func (q *Queue) ResolveChoice(ctx context.Context, index int) error {
	q.mu.Lock()
	if q.state == StateDisposed {
		q.mu.Unlock()
		return domain.ErrQueueDisposed
	}
	if q.state != StateSuspended || q.pending == nil || q.pending.Type != domain.MessageChoice {
		q.mu.Unlock()
		return domain.ErrNoPendingInteraction
	}
	if index < 0 || index >= len(q.pending.Choices) {
		q.mu.Unlock()
		return domain.ErrChoiceOutOfRange
	}

	resolved := *q.pending
	choice := resolved.Choices[index]
	annotated := resolved
	annotated.Selection = &choice
	q.replaceLogged(annotated)

	q.pending = nil
	q.setState(StateDraining)
	q.mu.Unlock()

	if resolved.StoreKey != "" {
		if err := q.store.Set(ctx, resolved.StoreKey, choice.StoredValue()); err != nil {
			q.logger.Warn("failed to persist choice value", "key", resolved.StoreKey, "err", err)
		}
	}

	q.emitResumed(ctx, &resolved)
	q.follow(ctx, choice.Destination())
	go q.drain(context.WithoutCancel(ctx))
	return nil
}

// ResolveText resumes a queue suspended on a textInput message. The answer
// is echoed into the log as a user message, persisted under the message's
// store key, and delivery continues at the message's next id.
func (q *Queue) ResolveText(ctx context.Context, text string) error {
	q.mu.Lock()
	if q.state == StateDisposed {
		q.mu.Unlock()
		return domain.ErrQueueDisposed
	}
	if q.state != StateSuspended || q.pending == nil || q.pending.Type != domain.MessageTextInput {
		q.mu.Unlock()
		return domain.ErrNoPendingInteraction
	}

	resolved := *q.pending
	if text = strings.TrimSpace(text); text != "" {
		echo := domain.Message{
			ID:   resolved.ID + "/answer",
			Type: domain.MessageUser,
			Text: text,
		}
		q.appendLogged(echo)
	}

	q.pending = nil
	q.setState(StateDraining)
	q.mu.Unlock()

	if resolved.StoreKey != "" {
		if err := q.store.Set(ctx, resolved.StoreKey, text); err != nil {
			q.logger.Warn("failed to persist text answer", "key", resolved.StoreKey, "err", err)
		}
	}

	q.emitResumed(ctx, &resolved)
	q.follow(ctx, domain.Destination{MessageID: resolved.NextMessageID})
	go q.drain(context.WithoutCancel(ctx))
	return nil
}

// Dispose cancels any pending pacing wait, clears the backlog, and makes the
// queue permanently unusable. In-flight visible messages are neither
// completed nor rolled back.
func (q *Queue) Dispose() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == StateDisposed {
		return
	}
	q.setState(StateDisposed)
	q.backlog = nil
	q.pending = nil
	close(q.done)
}

// State returns the current lifecycle state.
func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Settle blocks until no drain loop is running and returns the state it
// settled in: idle, suspended or disposed. Hosts that treat the queue as
// request/response call this after entering a sequence or resolving an
// interaction.
func (q *Queue) Settle() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.state == StateDraining {
		q.cond.Wait()
	}
	return q.state
}

// Pending returns the interactive message the queue is suspended on.
func (q *Queue) Pending() (*domain.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		return nil, false
	}
	copied := *q.pending
	return &copied, true
}

// Log returns a copy of the visible message log.
func (q *Queue) Log() []domain.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Message, len(q.log))
	copy(out, q.log)
	return out
}

// ActiveSequenceID returns the id of the sequence currently being drained.
func (q *Queue) ActiveSequenceID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.seq == nil {
		return ""
	}
	return q.seq.ID
}

// drain is the single active loop walking the backlog. It exits when the
// backlog empties (back to Idle), when it suspends on an interactive
// message, or when the queue is disposed.
func (q *Queue) drain(ctx context.Context) {
	for {
		q.mu.Lock()
		if q.state != StateDraining {
			q.mu.Unlock()
			return
		}
		if len(q.backlog) == 0 {
			q.setState(StateIdle)
			q.mu.Unlock()
			return
		}
		msg := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.mu.Unlock()

		if !q.process(ctx, msg) {
			return
		}
	}
}

// process handles one message. It returns false when the drain loop must
// stop (suspension or disposal).
func (q *Queue) process(ctx context.Context, msg domain.Message) bool {
	switch msg.Type {
	case domain.MessageAutoroute:
		dst, ok := ResolveRoute(msg.Routes, q.snapshot(ctx))
		if !ok {
			// Defensive: loader validation guarantees a default route, so an
			// unmatched autoroute is a terminal dead end, never a failure.
			q.logger.Warn("autoroute matched no route and has no default; treating as dead end",
				"message_id", msg.ID)
			q.emitDeadEnd(ctx, &msg)
			return true
		}
		q.follow(ctx, dst)
		return true

	case domain.MessageDataAction:
		if err := q.actions.Apply(ctx, msg.Action); err != nil {
			q.logger.Warn("data action failed", "message_id", msg.ID, "err", err)
		}
		if msg.Action != nil && msg.Action.Type == domain.ActionTrigger {
			q.emitTrigger(ctx, msg.Action)
		}
		q.follow(ctx, domain.Destination{MessageID: msg.NextMessageID})
		return true

	case domain.MessageBot, domain.MessageUser:
		text := q.resolveText(ctx, &msg)
		// Sibling parts of a multi-part message share one pacing delay.
		wait := q.resolvedDelay(msg, text)
		for _, part := range template.SplitParts(text) {
			if !q.deliver(ctx, msg, part, wait) {
				return false
			}
		}
		q.follow(ctx, domain.Destination{MessageID: msg.NextMessageID})
		return true

	case domain.MessageSystem, domain.MessageImage:
		text := q.resolveText(ctx, &msg)
		if !q.deliver(ctx, msg, text, q.resolvedDelay(msg, text)) {
			return false
		}
		q.follow(ctx, domain.Destination{MessageID: msg.NextMessageID})
		return true

	case domain.MessageChoice, domain.MessageTextInput:
		resolved := msg
		resolved.Text = q.resolveText(ctx, &msg)
		resolved.Choices = q.resolveChoices(ctx, msg.Choices)
		if !q.deliver(ctx, resolved, resolved.Text, q.resolvedDelay(resolved, resolved.Text)) {
			return false
		}

		q.mu.Lock()
		if q.state != StateDraining {
			q.mu.Unlock()
			return false
		}
		q.pending = &resolved
		q.setState(StateSuspended)
		q.mu.Unlock()

		q.emitSuspended(ctx, &resolved)
		return false
	}

	q.logger.Warn("skipping message with unknown type", "message_id", msg.ID, "type", msg.Type)
	q.follow(ctx, domain.Destination{MessageID: msg.NextMessageID})
	return true
}

// deliver paces and appends one visible message. It returns false if the
// queue was disposed while waiting.
func (q *Queue) deliver(ctx context.Context, msg domain.Message, text string, wait time.Duration) bool {
	if !q.pause(wait) {
		return false
	}

	entry := msg
	entry.Text = text

	q.mu.Lock()
	if q.state == StateDisposed {
		q.mu.Unlock()
		return false
	}
	key := string(entry.Type) + "\x00" + entry.ID + "\x00" + entry.Text
	if _, dup := q.delivered[key]; dup {
		q.mu.Unlock()
		q.logger.Debug("suppressing duplicate delivery", "message_id", entry.ID)
		return true
	}
	q.delivered[key] = struct{}{}
	q.log = append(q.log, entry)
	q.mu.Unlock()

	q.emitDelivered(ctx, &entry, wait)
	return true
}

// pause waits for the pacing delay against the injected clock, aborting
// early on disposal.
func (q *Queue) pause(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-q.done:
			return false
		default:
			return true
		}
	}
	select {
	case <-q.clock.After(d):
		return true
	case <-q.done:
		return false
	}
}

// resolvedDelay picks the pacing wait: the explicit author value when given,
// else an adaptive default from the word count, clamped to the configured
// bounds. Instant mode collapses everything to zero.
func (q *Queue) resolvedDelay(msg domain.Message, text string) time.Duration {
	if q.instant {
		return 0
	}
	if msg.HasExplicitDelay {
		return msg.Delay
	}
	words := len(strings.Fields(text))
	d := time.Duration(words) * q.perWord
	if d < q.minDelay {
		d = q.minDelay
	}
	if d > q.maxDelay {
		d = q.maxDelay
	}
	return d
}

// follow pushes the destination's message onto the front of the backlog,
// loading and entering another sequence first when the destination jumps. A
// zero destination ends the local walk (a designated terminal point).
func (q *Queue) follow(ctx context.Context, dst domain.Destination) {
	if dst.Zero() {
		return
	}

	seq := q.activeSequence()
	if dst.SequenceID != "" && (seq == nil || dst.SequenceID != seq.ID) {
		next, err := q.source.Load(ctx, dst.SequenceID)
		if err != nil {
			q.logger.Warn("cross-sequence jump target failed to load",
				"sequence_id", dst.SequenceID, "err", err)
			return
		}
		q.mu.Lock()
		q.seq = next
		q.mu.Unlock()
		seq = next
		q.emitSequenceEnter(ctx, next.ID)
	}
	if seq == nil {
		return
	}

	var target *domain.Message
	if dst.MessageID != "" {
		m, ok := seq.MessageByID(dst.MessageID)
		if !ok {
			q.logger.Warn("continuation references missing message",
				"sequence_id", seq.ID, "message_id", dst.MessageID)
			return
		}
		target = m
	} else {
		m, ok := seq.First()
		if !ok {
			return
		}
		target = m
	}

	q.mu.Lock()
	if q.state != StateDisposed {
		q.backlog = append([]domain.Message{*target}, q.backlog...)
	}
	q.mu.Unlock()
}

func (q *Queue) activeSequence() *domain.Sequence {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seq
}

// resolveText applies content-key resolution, then template substitution.
// It never fails; missing keys degrade to the literal authored text.
func (q *Queue) resolveText(ctx context.Context, msg *domain.Message) string {
	text := msg.Text
	if msg.ContentKey != "" && q.library != nil {
		text = template.ResolveContent(msg.ContentKey, msg.Text, q.library.Lookup)
	}
	return q.resolver.Resolve(text, template.LookupFunc(q.snapshot(ctx)))
}

func (q *Queue) resolveChoices(ctx context.Context, choices []domain.Choice) []domain.Choice {
	if len(choices) == 0 {
		return nil
	}
	out := make([]domain.Choice, len(choices))
	for i, c := range choices {
		text := c.Text
		if c.ContentKey != "" && q.library != nil {
			text = template.ResolveContent(c.ContentKey, c.Text, q.library.Lookup)
		}
		c.Text = q.resolver.Resolve(text, template.LookupFunc(q.snapshot(ctx)))
		out[i] = c
	}
	return out
}

// snapshot adapts the data store into the pure lookup the resolver and
// evaluator consume. Store errors degrade to key-absence.
func (q *Queue) snapshot(ctx context.Context) condition.LookupFunc {
	return func(key string) (any, bool) {
		v, ok, err := q.store.Get(ctx, key)
		if err != nil {
			q.logger.Warn("data store read failed; treating key as absent", "key", key, "err", err)
			return nil, false
		}
		return v, ok
	}
}

// appendLogged and replaceLogged mutate the log under q.mu (callers hold it).
func (q *Queue) appendLogged(msg domain.Message) {
	q.log = append(q.log, msg)
}

func (q *Queue) replaceLogged(msg domain.Message) {
	for i := len(q.log) - 1; i >= 0; i-- {
		if q.log[i].ID == msg.ID {
			q.log[i] = msg
			return
		}
	}
	q.log = append(q.log, msg)
}

func (q *Queue) emitSequenceEnter(ctx context.Context, id string) {
	if q.hooks.OnSequenceEnter != nil {
		q.hooks.OnSequenceEnter(ctx, &domain.SequenceEvent{Timestamp: q.clock.Now(), SequenceID: id})
	}
}

func (q *Queue) emitDelivered(ctx context.Context, msg *domain.Message, waited time.Duration) {
	if q.hooks.OnMessageDelivered != nil {
		q.hooks.OnMessageDelivered(ctx, q.messageEvent(msg, waited))
	}
}

func (q *Queue) emitSuspended(ctx context.Context, msg *domain.Message) {
	if q.hooks.OnSuspended != nil {
		q.hooks.OnSuspended(ctx, q.messageEvent(msg, 0))
	}
}

func (q *Queue) emitResumed(ctx context.Context, msg *domain.Message) {
	if q.hooks.OnResumed != nil {
		q.hooks.OnResumed(ctx, q.messageEvent(msg, 0))
	}
}

func (q *Queue) emitDeadEnd(ctx context.Context, msg *domain.Message) {
	if q.hooks.OnRoutingDeadEnd != nil {
		q.hooks.OnRoutingDeadEnd(ctx, q.messageEvent(msg, 0))
	}
}

func (q *Queue) emitTrigger(ctx context.Context, action *domain.DataAction) {
	if q.hooks.OnTrigger != nil {
		q.hooks.OnTrigger(ctx, &domain.TriggerEvent{
			Timestamp: q.clock.Now(),
			Name:      action.Event,
			Data:      action.Data,
		})
	}
}

func (q *Queue) messageEvent(msg *domain.Message, waited time.Duration) *domain.MessageEvent {
	return &domain.MessageEvent{
		Timestamp:  q.clock.Now(),
		SequenceID: q.ActiveSequenceID(),
		MessageID:  msg.ID,
		Type:       msg.Type,
		Waited:     waited,
	}
}

// systemClock is the default wall-clock implementation of ports.Clock.
type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
