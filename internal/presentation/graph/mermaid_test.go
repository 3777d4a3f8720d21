package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patterflow/patter/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	seq := &domain.Sequence{
		ID: "checkin",
		Messages: []domain.Message{
			{ID: "intro", Type: domain.MessageBot, Text: "Hi", NextMessageID: "mood"},
			{
				ID:   "mood",
				Type: domain.MessageChoice,
				Choices: []domain.Choice{
					{Text: "Good", NextMessageID: "route"},
					{Text: "Bad", SequenceID: "support"},
				},
			},
			{
				ID:   "route",
				Type: domain.MessageAutoroute,
				Routes: []domain.RouteCondition{
					{Condition: "user.visits > 3", NextMessageID: "intro"},
					{IsDefault: true, SequenceID: "onboarding"},
				},
			},
		},
	}
	seq.Reindex()

	out := GenerateMermaid(seq)

	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `intro(("intro"))`, "first message renders as a circle")
	assert.Contains(t, out, `mood[/"mood"/]`, "interactive messages render as parallelograms")
	assert.Contains(t, out, `route{"route"}`, "autoroutes render as rhombi")
	assert.Contains(t, out, `intro --> mood`)
	assert.Contains(t, out, `mood -- "Good" --> route`)
	assert.Contains(t, out, `mood -. "Bad" .-> seq_support`, "cross-sequence jumps are dashed")
	assert.Contains(t, out, `route -- "user.visits > 3" --> intro`)
	assert.Contains(t, out, `route -. "default" .-> seq_onboarding`)
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "day_1_intro", sanitizeMermaidID("day-1.intro"))
}
