// Package cli wires the engine to the terminal for the patter commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/patterflow/patter"
	"github.com/patterflow/patter/internal/presentation/tui"
	"github.com/patterflow/patter/pkg/adapters/file"
)

// RunOptions configures one interactive session.
type RunOptions struct {
	Dir        string
	SequenceID string
	Instant    bool
	Plain      bool
	Debug      bool
}

// RunSession executes a single interactive conversation on the terminal.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	source, err := file.New(opts.Dir, file.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load sequences from %s: %w", opts.Dir, err)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sequenceID, err := pickSequence(sigCtx, source, opts.SequenceID)
	if err != nil {
		return err
	}

	engine, err := patter.New(source,
		patter.WithLogger(logger),
		patter.WithInstantDelivery(opts.Instant),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Dispose()

	interactive := stdoutIsTerminal() && !opts.Plain
	if interactive {
		tui.PrintBanner(patter.Version)
	}

	runner := patter.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	if interactive {
		runner.Renderer = tui.NewRenderer()
	}

	return runner.Run(sigCtx, engine, sequenceID)
}

// pickSequence resolves the starting sequence: the explicit flag, or the only
// sequence the directory offers.
func pickSequence(ctx context.Context, source *file.Source, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	ids, err := source.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list sequences: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no valid sequences found")
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("multiple sequences found, pick one with --sequence: %v", ids)
}
