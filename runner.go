package patter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/patterflow/patter/pkg/domain"
)

// Runner drives an Engine through provided IO. This allows for easy testing
// and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// ContentRenderer transforms bot text before outputting it. This allows for
// TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner with unset IO. Callers set Input/Output
// explicitly (os.Stdin/os.Stdout for a CLI, buffers for tests).
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts a session on the given sequence and loops: print the transcript
// as it grows, answer pending interactions from Input, stop when the flow
// runs out or the input closes.
func (r *Runner) Run(ctx context.Context, engine *Engine, sequenceID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)

	if err := engine.StartSession(ctx, sequenceID); err != nil {
		return err
	}

	printed := 0
	for {
		state := engine.Settle()

		log := engine.Log()
		for _, msg := range log[printed:] {
			r.printMessage(msg)
		}
		printed = len(log)

		if state != "suspended" {
			return nil
		}

		pending, ok := engine.Pending()
		if !ok {
			return domain.ErrNoPendingInteraction
		}

		done, err := r.answer(ctx, engine, pending, lines)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// answer collects input for one pending interaction. It returns done=true on
// EOF or an explicit exit.
func (r *Runner) answer(ctx context.Context, engine *Engine, pending *domain.Message, lines *bufio.Reader) (bool, error) {
	if pending.Type == domain.MessageChoice {
		for i, choice := range pending.Choices {
			fmt.Fprintf(r.Output, "  %d) %s\n", i+1, choice.Text)
		}
	}

	for {
		fmt.Fprint(r.Output, "> ")
		raw, err := lines.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return true, nil
			}
			return false, fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(raw)

		if input == "exit" || input == "quit" {
			fmt.Fprintln(r.Output, "Bye!")
			return true, nil
		}

		switch pending.Type {
		case domain.MessageChoice:
			n, convErr := strconv.Atoi(input)
			if convErr != nil || n < 1 || n > len(pending.Choices) {
				fmt.Fprintf(r.Output, "pick a number between 1 and %d\n", len(pending.Choices))
				continue
			}
			return false, engine.ResolveChoice(ctx, n-1)
		default:
			return false, engine.ResolveText(ctx, input)
		}
	}
}

func (r *Runner) printMessage(msg domain.Message) {
	switch msg.Type {
	case domain.MessageBot, domain.MessageSystem:
		output := msg.Text
		if r.Renderer != nil {
			if rendered, err := r.Renderer(msg.Text); err == nil {
				output = rendered
			}
		}
		fmt.Fprintln(r.Output, strings.TrimSpace(output))
	case domain.MessageUser:
		fmt.Fprintf(r.Output, "you: %s\n", msg.Text)
	case domain.MessageImage:
		fmt.Fprintf(r.Output, "[image: %s]\n", msg.ImagePath)
	case domain.MessageChoice, domain.MessageTextInput:
		if msg.Text != "" {
			output := msg.Text
			if r.Renderer != nil {
				if rendered, err := r.Renderer(msg.Text); err == nil {
					output = rendered
				}
			}
			fmt.Fprintln(r.Output, strings.TrimSpace(output))
		}
	}
}
