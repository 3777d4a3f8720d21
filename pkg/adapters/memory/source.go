package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/patterflow/patter/internal/validator"
	"github.com/patterflow/patter/pkg/domain"
)

// Source implements ports.SequenceSource from an in-memory map.
type Source struct {
	mu        sync.RWMutex
	sequences map[string]*domain.Sequence
}

// NewSource creates an empty source.
func NewSource() *Source {
	return &Source{sequences: make(map[string]*domain.Sequence)}
}

// NewFromSequences creates a source from domain objects, validating each one.
// This keeps test setup short while preserving the invariant that a source
// only ever hands out validated, indexed sequences.
func NewFromSequences(seqs ...domain.Sequence) (*Source, error) {
	s := NewSource()
	for i := range seqs {
		if err := s.Add(&seqs[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add validates and registers one sequence. Sequences with validation errors
// are rejected.
func (s *Source) Add(seq *domain.Sequence) error {
	if result := validator.Validate(seq); !result.OK() {
		return result.Err()
	}
	seq.Reindex()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[seq.ID] = seq
	return nil
}

// Load returns the sequence with the given id.
func (s *Source) Load(ctx context.Context, id string) (*domain.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq, ok := s.sequences[id]
	if !ok {
		return nil, domain.ErrSequenceNotFound
	}
	return seq, nil
}

// List returns all sequence ids in deterministic order.
func (s *Source) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sequences))
	for id := range s.sequences {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
