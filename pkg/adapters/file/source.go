// Package file loads authored sequences from a directory of YAML or JSON
// files. Every sequence is structurally validated on load: sequences with
// errors are reported and withheld, warnings are logged and kept on the
// result.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/internal/validator"
	"github.com/patterflow/patter/pkg/domain"
)

// Source implements ports.SequenceSource over a directory tree.
type Source struct {
	dir    string
	logger *slog.Logger

	mu        sync.RWMutex
	sequences map[string]*domain.Sequence
	results   []domain.ValidationResult
}

// Option configures the Source.
type Option func(*Source)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// New scans dir for *.yaml, *.yml and *.json sequence files and loads every
// valid sequence. Files that fail to parse or validate do not abort the scan;
// their findings are available via Results.
func New(dir string, opts ...Option) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid sequence directory: %w", err)
	}
	s := &Source{
		dir:       abs,
		logger:    logging.NewNop(),
		sequences: make(map[string]*domain.Sequence),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read sequence directory %s: %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !sequenceFile(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		seq, err := ParseSequence(data)
		if err != nil {
			// Malformed files surface as a result, not a hard failure, so
			// one broken file does not take the whole library offline.
			s.results = append(s.results, domain.ValidationResult{
				SequenceID: entry.Name(),
				Errors: []domain.ValidationIssue{{
					Severity: domain.SeverityError,
					Code:     "parse_failure",
					Detail:   err.Error(),
				}},
			})
			s.logger.Warn("skipping unparseable sequence file", "file", entry.Name(), "err", err)
			continue
		}

		result := validator.Validate(seq)
		s.results = append(s.results, result)
		for _, w := range result.Warnings {
			s.logger.Warn("sequence validation warning", "sequence", seq.ID, "issue", w.String())
		}
		if !result.OK() {
			s.logger.Warn("withholding sequence with validation errors",
				"sequence", seq.ID, "file", entry.Name(), "errors", len(result.Errors))
			continue
		}

		seq.Reindex()
		s.sequences[seq.ID] = seq
	}
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

// List returns all loaded sequence ids in deterministic order.
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

// Results returns the validation findings of the last scan, one per file.
func (s *Source) Results() []domain.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ValidationResult, len(s.results))
	copy(out, s.results)
	return out
}

func sequenceFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
