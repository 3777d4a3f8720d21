package domain

// Sequence is a named, ordered collection of messages forming one
// conversational unit. It is loaded once, validated, and then treated as
// immutable; the runtime only reads it.
type Sequence struct {
	ID          string    `json:"sequenceId" yaml:"sequenceId"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Messages    []Message `json:"messages" yaml:"messages"`

	index map[string]int
}

// Reindex rebuilds the id→message index. Loaders call it once after
// construction; later ids shadow earlier duplicates (the validator reports
// duplicates as errors before a sequence is ever used).
func (s *Sequence) Reindex() {
	s.index = make(map[string]int, len(s.Messages))
	for i, m := range s.Messages {
		s.index[m.ID] = i
	}
}

// MessageByID returns the message with the given id in O(1).
func (s *Sequence) MessageByID(id string) (*Message, bool) {
	if s.index == nil {
		s.Reindex()
	}
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.Messages[i], true
}

// First returns the entry message of the sequence.
func (s *Sequence) First() (*Message, bool) {
	if len(s.Messages) == 0 {
		return nil, false
	}
	return &s.Messages[0], true
}
