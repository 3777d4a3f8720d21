package template

import (
	"strconv"
	"strings"
	"time"
)

// Formatter is a pure, named transform applied to a looked-up value before
// join and case handling. Formatters never fail; unrecognizable input passes
// through unchanged.
type Formatter func(value any) any

func builtinFormatters() map[string]Formatter {
	return map[string]Formatter{
		"timeOfDay": formatTimeOfDay,
		"weekdays":  formatWeekdays,
		"date":      formatDate,
		"number":    formatNumber,
	}
}

// formatTimeOfDay maps an hour (or an already-bucketed name) to the
// time-of-day bucket name used throughout the conversation content.
func formatTimeOfDay(v any) any {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "morning", "afternoon", "evening", "night":
			return strings.ToLower(strings.TrimSpace(s))
		}
	}
	hour, ok := asInt(v)
	if !ok {
		return v
	}
	switch {
	case hour >= 5 && hour <= 11:
		return "morning"
	case hour >= 12 && hour <= 16:
		return "afternoon"
	case hour >= 17 && hour <= 21:
		return "evening"
	default:
		return "night"
	}
}

var weekdayNames = map[string]string{
	"mon": "Monday", "tue": "Tuesday", "wed": "Wednesday", "thu": "Thursday",
	"fri": "Friday", "sat": "Saturday", "sun": "Sunday",
}

// formatWeekdays expands stored weekday tokens ("mon,wed,fri" or a list) into
// full day names, as a list so a join modifier can render them naturally.
func formatWeekdays(v any) any {
	tokens := toList(v)
	if len(tokens) == 0 {
		return v
	}
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		key := strings.ToLower(strings.TrimSpace(tok))
		if len(key) > 3 {
			key = key[:3]
		}
		if name, ok := weekdayNames[key]; ok {
			names = append(names, name)
		} else {
			names = append(names, tok)
		}
	}
	return names
}

// formatDate renders a stored ISO date (2006-01-02) as a readable long form.
func formatDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return v
	}
	return t.Format("Monday, 2 January")
}

// formatNumber normalizes numeric values to a compact decimal rendering
// (12.0 -> "12", 12.5 -> "12.5").
func formatNumber(v any) any {
	f, ok := asFloat(v)
	if !ok {
		return v
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
