package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/pkg/domain"
	"github.com/patterflow/patter/pkg/ports"
)

// ActionProcessor applies data actions to the store and forwards trigger
// events to the sink. Type mismatches are coerced, never rejected; the only
// errors surfaced are store I/O failures.
type ActionProcessor struct {
	store  ports.DataStore
	sink   ports.EventSink
	logger *slog.Logger
}

// NewActionProcessor creates a processor over the given collaborators.
// sink may be nil when the host consumes no trigger events.
func NewActionProcessor(store ports.DataStore, sink ports.EventSink, logger *slog.Logger) *ActionProcessor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ActionProcessor{store: store, sink: sink, logger: logger}
}

// Apply executes one data action.
func (p *ActionProcessor) Apply(ctx context.Context, action *domain.DataAction) error {
	if action == nil {
		return nil
	}
	switch action.Type {
	case domain.ActionSet:
		return p.store.Set(ctx, action.Key, action.Value)

	case domain.ActionIncrement:
		return p.add(ctx, action, 1)

	case domain.ActionDecrement:
		return p.add(ctx, action, -1)

	case domain.ActionReset:
		current, ok, err := p.store.Get(ctx, action.Key)
		if err != nil {
			return fmt.Errorf("reset %s: %w", action.Key, err)
		}
		if ok {
			if _, numeric := coerceNumber(current); numeric {
				return p.store.Set(ctx, action.Key, 0)
			}
		}
		return p.store.Set(ctx, action.Key, nil)

	case domain.ActionTrigger:
		if p.sink != nil {
			// Fire-and-forget: no acknowledgment is awaited.
			p.sink.Emit(ctx, action.Event, action.Data)
		}
		return nil

	default:
		p.logger.Warn("ignoring data action with unknown type", "type", action.Type, "key", action.Key)
		return nil
	}
}

// add implements increment/decrement. Absent or non-numeric current values
// are treated as 0; a non-numeric magnitude falls back to 1.
func (p *ActionProcessor) add(ctx context.Context, action *domain.DataAction, sign float64) error {
	current := 0.0
	if v, ok, err := p.store.Get(ctx, action.Key); err != nil {
		return fmt.Errorf("%s %s: %w", action.Type, action.Key, err)
	} else if ok {
		if f, numeric := coerceNumber(v); numeric {
			current = f
		}
	}

	magnitude := 1.0
	if action.Value != nil {
		if f, numeric := coerceNumber(action.Value); numeric {
			magnitude = f
		}
	}

	next := current + sign*magnitude
	// Store whole results as integers so counters stay counters.
	if next == float64(int64(next)) {
		return p.store.Set(ctx, action.Key, int(next))
	}
	return p.store.Set(ctx, action.Key, next)
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
