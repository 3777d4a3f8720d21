package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patterflow/patter/pkg/domain"
)

const greetingYAML = `
sequenceId: greeting
name: Greeting
description: Says hello.
messages:
  - id: hello
    type: bot
    text: "Hello there!"
    delay: 500
    nextMessageId: mood
  - id: mood
    type: choice
    text: "How are you?"
    storeKey: user.mood
    choices:
      - text: "Great"
        value: great
        nextMessageId: bye
      - text: "Tired"
        value: tired
        nextMessageId: bye
  - id: bye
    type: bot
    text: "See you soon."
`

func TestParseSequenceYAML(t *testing.T) {
	seq, err := ParseSequence([]byte(greetingYAML))
	require.NoError(t, err)

	assert.Equal(t, "greeting", seq.ID)
	assert.Equal(t, "Greeting", seq.Name)
	require.Len(t, seq.Messages, 3)

	hello := seq.Messages[0]
	assert.Equal(t, domain.MessageBot, hello.Type)
	assert.Equal(t, 500*time.Millisecond, hello.Delay, "delays are authored in milliseconds")
	assert.True(t, hello.HasExplicitDelay)
	assert.Equal(t, "mood", hello.NextMessageID)

	mood := seq.Messages[1]
	assert.False(t, mood.HasExplicitDelay, "no authored delay means adaptive pacing")
	require.Len(t, mood.Choices, 2)
	assert.Equal(t, "Great", mood.Choices[0].Text)
	assert.Equal(t, "great", mood.Choices[0].Value)
	assert.Equal(t, "user.mood", mood.StoreKey)
}

func TestParseSequenceJSON(t *testing.T) {
	data := []byte(`{
		"sequenceId": "routed",
		"name": "Routed",
		"messages": [
			{"id": "r", "type": "autoroute", "routes": [
				{"condition": "user.visits > 1", "nextMessageId": "back"},
				{"isDefault": true, "nextMessageId": "fresh"}
			]},
			{"id": "back", "type": "bot", "text": "Welcome back."},
			{"id": "fresh", "type": "bot", "text": "Welcome.",
				"action": null},
			{"id": "count", "type": "dataAction",
				"action": {"type": "increment", "key": "user.visits"}}
		]
	}`)

	seq, err := ParseSequence(data)
	require.NoError(t, err)

	router := seq.Messages[0]
	require.Len(t, router.Routes, 2)
	assert.Equal(t, "user.visits > 1", router.Routes[0].Condition)
	assert.True(t, router.Routes[1].IsDefault)

	count := seq.Messages[3]
	require.NotNil(t, count.Action)
	assert.Equal(t, domain.ActionIncrement, count.Action.Type)
	assert.Equal(t, "user.visits", count.Action.Key)
}

func TestParseSequenceExplicitZeroDelay(t *testing.T) {
	seq, err := ParseSequence([]byte(`
sequenceId: s
name: S
messages:
  - id: m
    type: bot
    text: instant
    delay: 0
`))
	require.NoError(t, err)
	assert.True(t, seq.Messages[0].HasExplicitDelay)
	assert.Equal(t, time.Duration(0), seq.Messages[0].Delay)
}

func TestParseSequenceMalformed(t *testing.T) {
	_, err := ParseSequence([]byte("messages: [unclosed"))
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSourceScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greeting.yaml", greetingYAML)
	writeFile(t, dir, "broken.yaml", `
sequenceId: broken
name: Broken
messages:
  - id: m
    type: bot
    text: dangling
    nextMessageId: nowhere
`)
	writeFile(t, dir, "garbage.yml", "messages: [unclosed")
	writeFile(t, dir, "notes.txt", "not a sequence")

	source, err := New(dir)
	require.NoError(t, err)

	ids, err := source.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, ids,
		"invalid and unparseable files are withheld, other extensions ignored")

	seq, err := source.Load(context.Background(), "greeting")
	require.NoError(t, err)
	first, ok := seq.First()
	require.True(t, ok)
	assert.Equal(t, "hello", first.ID)

	_, err = source.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)

	results := source.Results()
	require.Len(t, results, 3, "one result per sequence file, parseable or not")

	byID := map[string]domain.ValidationResult{}
	for _, r := range results {
		byID[r.SequenceID] = r
	}
	assert.True(t, byID["greeting"].OK())
	assert.False(t, byID["broken"].OK())
	require.False(t, byID["garbage.yml"].OK())
	assert.Equal(t, "parse_failure", byID["garbage.yml"].Errors[0].Code)
}

func TestSourceMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
