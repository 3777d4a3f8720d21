package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func library(blocks map[string]string) ContentLookupFunc {
	return func(key string) (string, bool) {
		v, ok := blocks[key]
		return v, ok
	}
}

func TestResolveContent(t *testing.T) {
	blocks := map[string]string{
		"coach.praise.run.fast":    "Lightning fast run!",
		"coach.praise.run":         "Nice run!",
		"coach.praise.generic.big": "Big effort!",
		"coach.praise.generic":     "Well done!",
		"coach.praise":             "Good job.",
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"exact hit", "coach.praise.run.fast", "Lightning fast run!"},
		{"drops rightmost modifier", "coach.praise.run.fast.morning", "Lightning fast run!"},
		{"drops all modifiers", "coach.praise.run.long.solo", "Nice run!"},
		{"generic bucket keeps modifiers", "coach.praise.swim.big", "Big effort!"},
		{"generic bucket plain", "coach.praise.swim", "Well done!"},
		{"actor.action default", "coach.praise.swim.big.x", "Big effort!"},
		{"nothing matches falls to literal", "coach.scold.swim", "authored text"},
		{"shallow key tried as-is", "coach.praise", "Good job."},
		{"empty key falls to literal", "", "authored text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveContent(tt.key, "authored text", library(blocks)))
		})
	}
}

func TestResolveContentSkipsBlankBlocks(t *testing.T) {
	blocks := map[string]string{
		"coach.praise.run": "   ",
		"coach.praise":     "Good job.",
	}
	assert.Equal(t, "Good job.", ResolveContent("coach.praise.run", "authored", library(blocks)))
}

func TestContentCandidates(t *testing.T) {
	assert.Equal(t, []string{
		"a.b.c.d",
		"a.b.c",
		"a.b.generic.d",
		"a.b.generic",
		"a.b",
	}, contentCandidates("a.b.c.d"))

	assert.Equal(t, []string{
		"a.b.generic",
		"a.b",
	}, contentCandidates("a.b.generic"))

	assert.Equal(t, []string{"a.b"}, contentCandidates("a.b"))
	assert.Nil(t, contentCandidates(" "))
}
