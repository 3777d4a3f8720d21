// Package condition implements the boolean expression evaluator used by
// autoroute messages.
//
// Expressions are flat: "||" splits the expression into OR-groups, "&&"
// splits each group into atomic terms, and there are no grouping operators.
// An OR-group is true iff all its terms are true; the expression is true iff
// any OR-group is true. Evaluation is left-to-right and never errors —
// malformed atoms simply evaluate false.
package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc reads one dotted key from a data-store snapshot.
type LookupFunc func(key string) (any, bool)

// comparison operators, two-character ones first so "==" is not read as
// a malformed "=".
var operators = []string{"==", "!=", ">=", "<=", ">", "<"}

// Evaluate evaluates a full condition string against the snapshot.
// An empty expression is vacuously true (an unconditional route).
func Evaluate(expr string, lookup LookupFunc) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	for _, group := range strings.Split(expr, "||") {
		if evalGroup(group, lookup) {
			return true
		}
	}
	return false
}

func evalGroup(group string, lookup LookupFunc) bool {
	terms := strings.Split(group, "&&")
	for _, term := range terms {
		if !evalTerm(term, lookup) {
			return false
		}
	}
	return len(terms) > 0
}

func evalTerm(term string, lookup LookupFunc) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}

	for _, op := range operators {
		idx := strings.Index(term, op)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(term[:idx])
		right := strings.TrimSpace(term[idx+len(op):])
		return compare(resolveOperand(left, lookup), resolveOperand(right, lookup), op)
	}

	// Bare key (or literal): truthy value present.
	opnd := resolveOperand(term, lookup)
	if opnd.absent || opnd.isNull {
		return false
	}
	return truthy(opnd.value)
}

// operand is a resolved side of a comparison. absent marks a key that is not
// in the store (distinct from a stored nil, which resolves present with a
// nil value — both compare equal to the null literal).
type operand struct {
	value  any
	absent bool
	isNull bool
}

func resolveOperand(token string, lookup LookupFunc) operand {
	switch strings.ToLower(token) {
	case "null":
		return operand{isNull: true}
	case "true":
		return operand{value: true}
	case "false":
		return operand{value: false}
	}

	if unq, ok := unquote(token); ok {
		return operand{value: unq}
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return operand{value: f}
	}

	v, ok := lookup(token)
	if !ok {
		return operand{absent: true}
	}
	if v == nil {
		return operand{value: nil, isNull: true}
	}
	return operand{value: v}
}

func compare(left, right operand, op string) bool {
	// Null/absence semantics: "key == null" is true when the key is absent
	// (or stored as nil); ordering operators never match null.
	if left.isNull || left.absent || right.isNull || right.absent {
		leftNull := left.isNull || left.absent
		rightNull := right.isNull || right.absent
		switch op {
		case "==":
			return leftNull == rightNull
		case "!=":
			return leftNull != rightNull
		default:
			return false
		}
	}

	lf, lok := numeric(left.value)
	rf, rok := numeric(right.value)
	if lok && rok {
		switch op {
		case "==":
			return lf == rf
		case "!=":
			return lf != rf
		case ">":
			return lf > rf
		case "<":
			return lf < rf
		case ">=":
			return lf >= rf
		case "<=":
			return lf <= rf
		}
		return false
	}

	ls := stringify(left.value)
	rs := stringify(right.value)
	switch op {
	case "==":
		return ls == rs
	case "!=":
		return ls != rs
	case ">":
		return ls > rs
	case "<":
		return ls < rs
	case ">=":
		return ls >= rs
	case "<=":
		return ls <= rs
	}
	return false
}

func truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		s := strings.ToLower(strings.TrimSpace(n))
		return s != "" && s != "false" && s != "0" && s != "null"
	default:
		if f, ok := numeric(v); ok {
			return f != 0
		}
		return true
	}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case bool:
		return strconv.FormatBool(n)
	default:
		if f, ok := numeric(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Trim(fmt.Sprint(v), `"'`)
	}
}

// unquote strips one matching pair of surrounding quote characters.
func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}
