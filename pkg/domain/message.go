package domain

import "time"

// MessageType tags a message with its runtime behavior.
// The set is closed: dispatch over it with exhaustive switches so a new
// type is a compile-visible gap, not a silent fallthrough.
type MessageType string

const (
	// MessageBot is plain text spoken by the bot (soft step).
	MessageBot MessageType = "bot"
	// MessageUser is plain text rendered as if the user had said it.
	MessageUser MessageType = "user"
	// MessageChoice halts delivery until the user picks one of its Choices.
	MessageChoice MessageType = "choice"
	// MessageTextInput halts delivery until the user submits free text.
	MessageTextInput MessageType = "textInput"
	// MessageAutoroute is invisible; its sole effect is choosing the next
	// destination via its Routes.
	MessageAutoroute MessageType = "autoroute"
	// MessageDataAction is invisible; it mutates the data store or emits a
	// trigger event.
	MessageDataAction MessageType = "dataAction"
	// MessageImage displays an image referenced by ImagePath.
	MessageImage MessageType = "image"
	// MessageSystem is meta text (status lines, dividers) shown verbatim.
	MessageSystem MessageType = "system"
)

// Interactive reports whether delivery must suspend on this type and wait
// for external resolution.
func (t MessageType) Interactive() bool {
	return t == MessageChoice || t == MessageTextInput
}

// Displayable reports whether a message of this type is appended to the
// visible log at all.
func (t MessageType) Displayable() bool {
	switch t {
	case MessageBot, MessageUser, MessageChoice, MessageTextInput, MessageImage, MessageSystem:
		return true
	case MessageAutoroute, MessageDataAction:
		return false
	}
	return false
}

// Known reports whether t is one of the closed tag set.
func (t MessageType) Known() bool {
	switch t {
	case MessageBot, MessageUser, MessageChoice, MessageTextInput,
		MessageAutoroute, MessageDataAction, MessageImage, MessageSystem:
		return true
	}
	return false
}

// Message is one authored step of a sequence. Messages are value records:
// the loader creates them once and the runtime never mutates a shared copy.
type Message struct {
	ID   string      `json:"id" yaml:"id"`
	Type MessageType `json:"type" yaml:"type"`

	// Text is the raw authored text. It may contain template placeholders
	// ({key:formatter|fallback}) and the literal multi-part separator "|||".
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Delay paces delivery of this message. Zero with HasExplicitDelay unset
	// means "use the adaptive default".
	Delay            time.Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	HasExplicitDelay bool          `json:"hasExplicitDelay,omitempty" yaml:"hasExplicitDelay,omitempty"`

	// NextMessageID chains to the next message within the same sequence.
	NextMessageID string `json:"nextMessageId,omitempty" yaml:"nextMessageId,omitempty"`

	// StoreKey names the data-store key a textInput answer (or a choice
	// value) is written to.
	StoreKey string `json:"storeKey,omitempty" yaml:"storeKey,omitempty"`

	// Placeholder is the hint text shown for textInput messages.
	Placeholder string `json:"placeholderText,omitempty" yaml:"placeholderText,omitempty"`

	Choices []Choice         `json:"choices,omitempty" yaml:"choices,omitempty"`
	Routes  []RouteCondition `json:"routes,omitempty" yaml:"routes,omitempty"`
	Action  *DataAction      `json:"action,omitempty" yaml:"action,omitempty"`

	ImagePath string `json:"imagePath,omitempty" yaml:"imagePath,omitempty"`

	// ContentKey points into the content library (actor.action.subject[.modifier]*).
	// When set, library text wins over the literal Text.
	ContentKey string `json:"contentKey,omitempty" yaml:"contentKey,omitempty"`

	// Selection marks the choice the user picked. It is only ever set on the
	// annotated copy that replaces a logged choice message; authored messages
	// never carry it.
	Selection *Choice `json:"selection,omitempty" yaml:"-"`
}

// Choice is one selectable option on a choice message. Value decouples the
// stored datum from the display text. At most one of NextMessageID and
// SequenceID should be set; when both are, SequenceID wins.
type Choice struct {
	Text          string `json:"text" yaml:"text"`
	Value         any    `json:"value,omitempty" yaml:"value,omitempty"`
	NextMessageID string `json:"nextMessageId,omitempty" yaml:"nextMessageId,omitempty"`
	SequenceID    string `json:"sequenceId,omitempty" yaml:"sequenceId,omitempty"`
	ContentKey    string `json:"contentKey,omitempty" yaml:"contentKey,omitempty"`
}

// StoredValue returns the datum to persist for this choice: Value when set,
// else the display text.
func (c Choice) StoredValue() any {
	if c.Value != nil {
		return c.Value
	}
	return c.Text
}

// Destination returns where this choice leads.
func (c Choice) Destination() Destination {
	return Destination{MessageID: c.NextMessageID, SequenceID: c.SequenceID}
}

// RouteCondition is one branch of an autoroute message. Exactly one route in
// a message's list has IsDefault set; it is taken only when no earlier
// condition matches.
type RouteCondition struct {
	Condition     string `json:"condition,omitempty" yaml:"condition,omitempty"`
	NextMessageID string `json:"nextMessageId,omitempty" yaml:"nextMessageId,omitempty"`
	SequenceID    string `json:"sequenceId,omitempty" yaml:"sequenceId,omitempty"`
	IsDefault     bool   `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// Destination returns where this route leads.
func (r RouteCondition) Destination() Destination {
	return Destination{MessageID: r.NextMessageID, SequenceID: r.SequenceID}
}

// Destination is a resolved continuation target: a message in the active
// sequence, or a jump into another sequence. A SequenceID always wins over a
// MessageID (cross-sequence jumps restart at the target's first message
// unless MessageID is also set).
type Destination struct {
	MessageID  string
	SequenceID string
}

// Zero reports whether the destination points nowhere (a dead end).
func (d Destination) Zero() bool {
	return d.MessageID == "" && d.SequenceID == ""
}
