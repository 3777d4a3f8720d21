package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patterflow/patter/pkg/domain"
)

func validSequence() *domain.Sequence {
	return &domain.Sequence{
		ID:   "checkin",
		Name: "Daily check-in",
		Messages: []domain.Message{
			{ID: "intro", Type: domain.MessageBot, Text: "Hi!", NextMessageID: "mood"},
			{
				ID:   "mood",
				Type: domain.MessageChoice,
				Text: "How do you feel?",
				Choices: []domain.Choice{
					{Text: "Good", NextMessageID: "route"},
					{Text: "Bad", SequenceID: "support"},
				},
			},
			{
				ID:   "route",
				Type: domain.MessageAutoroute,
				Routes: []domain.RouteCondition{
					{Condition: "user.visits > 3", NextMessageID: "regular"},
					{IsDefault: true, NextMessageID: "fresh"},
				},
			},
			{ID: "regular", Type: domain.MessageBot, Text: "Welcome back."},
			{ID: "fresh", Type: domain.MessageBot, Text: "Nice to meet you."},
		},
	}
}

func codes(issues []domain.ValidationIssue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestValidateCleanSequence(t *testing.T) {
	res := Validate(validSequence())
	assert.True(t, res.OK())
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NoError(t, res.Err())
}

func TestValidateIdentity(t *testing.T) {
	res := Validate(&domain.Sequence{})
	assert.False(t, res.OK())
	assert.ElementsMatch(t, []string{
		domain.IssueEmptyID, domain.IssueEmptyName, domain.IssueNoMessages,
	}, codes(res.Errors))
	assert.Error(t, res.Err())
}

func TestValidateDuplicateMessageIDs(t *testing.T) {
	seq := validSequence()
	seq.Messages = append(seq.Messages, domain.Message{ID: "intro", Type: domain.MessageBot, Text: "again"})

	res := Validate(seq)
	assert.Contains(t, codes(res.Errors), domain.IssueDuplicateMessage)
}

func TestValidateDanglingNext(t *testing.T) {
	seq := validSequence()
	seq.Messages[0].NextMessageID = "missing"

	res := Validate(seq)
	assert.Contains(t, codes(res.Errors), domain.IssueDanglingReference)
}

func TestValidateUnknownType(t *testing.T) {
	seq := validSequence()
	seq.Messages[0].Type = "video"

	res := Validate(seq)
	assert.Contains(t, codes(res.Errors), domain.IssueUnknownType)
}

func TestValidateChoices(t *testing.T) {
	t.Run("missing target is an error", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[1].Choices[0] = domain.Choice{Text: "Nowhere"}

		res := Validate(seq)
		assert.Contains(t, codes(res.Errors), domain.IssueMissingTarget)
	})

	t.Run("both targets is a warning", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[1].Choices[0].SequenceID = "other"

		res := Validate(seq)
		assert.True(t, res.OK())
		assert.Contains(t, codes(res.Warnings), domain.IssueAmbiguousChoice)
	})

	t.Run("dangling choice target is an error", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[1].Choices[0].NextMessageID = "missing"

		res := Validate(seq)
		assert.Contains(t, codes(res.Errors), domain.IssueDanglingReference)
	})
}

func TestValidateRoutes(t *testing.T) {
	t.Run("autoroute without routes", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[2].Routes = nil

		res := Validate(seq)
		assert.Contains(t, codes(res.Errors), domain.IssueNoRoutes)
	})

	t.Run("no default route", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[2].Routes[1].IsDefault = false

		res := Validate(seq)
		assert.Contains(t, codes(res.Errors), domain.IssueNoDefaultRoute)
	})

	t.Run("two default routes", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[2].Routes[0].IsDefault = true

		res := Validate(seq)
		assert.Contains(t, codes(res.Errors), domain.IssueExtraDefaultRoute)
	})

	t.Run("cross-sequence default is fine", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[2].Routes[1] = domain.RouteCondition{IsDefault: true, SequenceID: "other"}

		res := Validate(seq)
		assert.True(t, res.OK())
	})
}

func TestValidateImagePath(t *testing.T) {
	seq := validSequence()
	seq.Messages[4] = domain.Message{ID: "fresh", Type: domain.MessageImage}

	res := Validate(seq)
	assert.Contains(t, codes(res.Errors), domain.IssueMissingImagePath)
}

func TestValidateWarnings(t *testing.T) {
	t.Run("unreachable message", func(t *testing.T) {
		seq := validSequence()
		seq.Messages = append(seq.Messages, domain.Message{ID: "orphan", Type: domain.MessageBot, Text: "lost"})

		res := Validate(seq)
		require.True(t, res.OK())
		assert.Contains(t, codes(res.Warnings), domain.IssueUnreachable)
	})

	t.Run("circular next chain", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[3].NextMessageID = "intro"

		res := Validate(seq)
		require.True(t, res.OK())
		assert.Contains(t, codes(res.Warnings), domain.IssueCircularChain)
	})

	t.Run("delay on silent message", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[2].Delay = 1000
		seq.Messages[2].HasExplicitDelay = true

		res := Validate(seq)
		require.True(t, res.OK())
		assert.Contains(t, codes(res.Warnings), domain.IssueDelayOnSilent)
	})

	t.Run("unbalanced placeholder", func(t *testing.T) {
		seq := validSequence()
		seq.Messages[0].Text = "Hi {user.name!"

		res := Validate(seq)
		require.True(t, res.OK())
		assert.Contains(t, codes(res.Warnings), domain.IssueUnbalancedBraces)
	})
}

func TestUnbalancedBraces(t *testing.T) {
	assert.False(t, unbalancedBraces("plain"))
	assert.False(t, unbalancedBraces("{a} and {b|c}"))
	assert.True(t, unbalancedBraces("{a"))
	assert.True(t, unbalancedBraces("a}"))
	assert.True(t, unbalancedBraces("{{a}}"))
}
