package domain

// ActionType tags a DataAction with its effect on the data store.
type ActionType string

const (
	// ActionSet overwrites the key with the literal value (any scalar, including null).
	ActionSet ActionType = "set"
	// ActionIncrement adds the value (default 1) to the key, coercing
	// absent or non-numeric current values to 0.
	ActionIncrement ActionType = "increment"
	// ActionDecrement subtracts the value (default 1) from the key.
	ActionDecrement ActionType = "decrement"
	// ActionReset writes 0 if the current value is numeric, null otherwise.
	ActionReset ActionType = "reset"
	// ActionTrigger emits {Event, Data} to the external event sink and
	// continues immediately. It never touches the data store.
	ActionTrigger ActionType = "trigger"
)

// Known reports whether t is one of the closed action set.
func (t ActionType) Known() bool {
	switch t {
	case ActionSet, ActionIncrement, ActionDecrement, ActionReset, ActionTrigger:
		return true
	}
	return false
}

// DataAction is the payload of a dataAction message: one mutation of the
// external data store, or one fire-and-forget trigger event.
type DataAction struct {
	Type  ActionType     `json:"type" yaml:"type"`
	Key   string         `json:"key,omitempty" yaml:"key,omitempty"`
	Value any            `json:"value,omitempty" yaml:"value,omitempty"`
	Event string         `json:"event,omitempty" yaml:"event,omitempty"`
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}
