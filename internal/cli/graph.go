package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/patterflow/patter/internal/presentation/graph"
	"github.com/patterflow/patter/pkg/adapters/file"
)

// RunGraph prints a Mermaid flowchart of one sequence to out.
func RunGraph(dir, sequenceID string, out io.Writer) error {
	source, err := file.New(dir)
	if err != nil {
		return fmt.Errorf("failed to load sequences from %s: %w", dir, err)
	}

	ctx := context.Background()
	sequenceID, err = pickSequence(ctx, source, sequenceID)
	if err != nil {
		return err
	}

	seq, err := source.Load(ctx, sequenceID)
	if err != nil {
		return err
	}

	fmt.Fprint(out, graph.GenerateMermaid(seq))
	return nil
}
