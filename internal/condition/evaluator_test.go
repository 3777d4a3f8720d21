package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshot(data map[string]any) LookupFunc {
	return func(key string) (any, bool) {
		v, ok := data[key]
		return v, ok
	}
}

func TestEvaluate(t *testing.T) {
	data := map[string]any{
		"user.mood":       "great",
		"user.visits":     float64(4),
		"user.streak":     "7",
		"session.active":  true,
		"session.expired": false,
		"task.cleared":    nil,
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty expression is true", "", true},
		{"blank expression is true", "   ", true},

		{"string equality", "user.mood == 'great'", true},
		{"string inequality", "user.mood != 'bad'", true},
		{"double quotes", `user.mood == "great"`, true},
		{"string mismatch", "user.mood == 'bad'", false},

		{"numeric greater", "user.visits > 3", true},
		{"numeric less", "user.visits < 3", false},
		{"numeric gte boundary", "user.visits >= 4", true},
		{"numeric string coerces", "user.streak >= 7", true},
		{"literal on left", "3 < user.visits", true},

		{"boolean equality", "session.active == true", true},
		{"boolean mismatch", "session.expired == true", false},

		{"absent key equals null", "user.nickname == null", true},
		{"stored nil equals null", "task.cleared == null", true},
		{"present key not null", "user.mood != null", true},
		{"ordering never matches null", "user.nickname > 3", false},

		{"and both true", "user.visits > 3 && user.mood == 'great'", true},
		{"and one false", "user.visits > 3 && user.mood == 'bad'", false},
		{"or second true", "user.mood == 'bad' || user.visits > 3", true},
		{"or groups of ands", "user.mood == 'bad' && user.visits > 3 || session.active == true", true},
		{"left to right no grouping", "session.expired == true || user.visits >= 4 && user.mood == 'great'", true},

		{"bare key truthy", "session.active", true},
		{"bare key falsy", "session.expired", false},
		{"bare absent key", "user.nickname", false},
		{"bare string truthy", "user.mood", true},
		{"bare literal true", "true", true},
		{"bare nonzero number", "user.visits", true},

		{"malformed atom is false", ">= 3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.expr, snapshot(data)))
		})
	}
}

func TestCompareMixedTypes(t *testing.T) {
	data := map[string]any{
		"count":  float64(12),
		"target": "12",
	}

	// Both sides numeric-coercible compare numerically.
	assert.True(t, Evaluate("count == target", snapshot(data)))
	assert.True(t, Evaluate("count == 12", snapshot(data)))
	// Non-numeric falls back to string comparison.
	assert.True(t, Evaluate("count != 'twelve'", snapshot(data)))
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(""))
	assert.False(t, truthy("false"))
	assert.False(t, truthy("0"))
	assert.False(t, truthy(0))
	assert.True(t, truthy("yes"))
	assert.True(t, truthy(1))
	assert.True(t, truthy(true))
	assert.True(t, truthy(struct{}{}))
}
