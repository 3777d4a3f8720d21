package patter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(onboardingSource(t), WithInstantDelivery(true))
	require.NoError(t, err)
	t.Cleanup(eng.Dispose)
	return eng
}

func TestRunnerRequiresIO(t *testing.T) {
	r := NewRunner()
	assert.Error(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))

	r.Input = strings.NewReader("")
	assert.Error(t, r.Run(context.Background(), newTestEngine(t), "onboarding"),
		"output must be set too")
}

func TestRunnerFullConversation(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner()
	r.Input = strings.NewReader("ana\n1\n")
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))

	transcript := out.String()
	assert.Contains(t, transcript, "Welcome! This is visit number 1.")
	assert.Contains(t, transcript, "What is your name?")
	assert.Contains(t, transcript, "you: ana")
	assert.Contains(t, transcript, "How are you feeling, Ana?")
	assert.Contains(t, transcript, "1) Great")
	assert.Contains(t, transcript, "2) Tired")
	assert.Contains(t, transcript, "Love to hear it.")
}

func TestRunnerRejectsBadChoiceInput(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner()
	r.Input = strings.NewReader("ana\nseven\n0\n2\n")
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))

	transcript := out.String()
	assert.Contains(t, transcript, "pick a number between 1 and 2")
	assert.Contains(t, transcript, "Take it easy today.",
		"the retry loop eventually accepts choice 2")
}

func TestRunnerExitCommand(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner()
	r.Input = strings.NewReader("exit\n")
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))
	assert.Contains(t, out.String(), "Bye!")
	assert.NotContains(t, out.String(), "you:")
}

func TestRunnerEOFEndsCleanly(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner()
	r.Input = strings.NewReader("")
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))
	assert.Contains(t, out.String(), "What is your name?")
}

func TestRunnerRendererApplies(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner()
	r.Input = strings.NewReader("")
	r.Output = &out
	r.Renderer = func(s string) (string, error) {
		return "[rendered] " + s, nil
	}

	require.NoError(t, r.Run(context.Background(), newTestEngine(t), "onboarding"))
	assert.Contains(t, out.String(), "[rendered] Welcome!")
}
