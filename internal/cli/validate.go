package cli

import (
	"fmt"
	"io"

	"github.com/patterflow/patter/internal/presentation/tui"
	"github.com/patterflow/patter/pkg/adapters/file"
	"github.com/patterflow/patter/pkg/domain"
)

// RunValidate scans a sequence directory and prints a validation report.
// It returns an error when any sequence has blocking issues.
func RunValidate(dir string, out io.Writer) error {
	source, err := file.New(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	results := source.Results()
	if len(results) == 0 {
		return fmt.Errorf("no sequence files found in %s", dir)
	}

	failed := 0
	for _, res := range results {
		printResult(out, res)
		if !res.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sequence(s) failed validation", failed, len(results))
	}
	fmt.Fprintf(out, "\nAll %d sequence(s) are valid.\n", len(results))
	return nil
}

func printResult(out io.Writer, res domain.ValidationResult) {
	switch {
	case !res.OK():
		fmt.Fprintf(out, "%s %s\n", tui.Accent(res.SequenceID), "FAIL")
	case len(res.Warnings) > 0:
		fmt.Fprintf(out, "%s ok, %d warning(s)\n", tui.Accent(res.SequenceID), len(res.Warnings))
	default:
		fmt.Fprintf(out, "%s ok\n", tui.Accent(res.SequenceID))
	}
	for _, issue := range res.Errors {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	for _, issue := range res.Warnings {
		fmt.Fprintf(out, "  %s\n", tui.Muted(issue.String()))
	}
}
