// Package template implements the pure text-resolution engine: placeholder
// substitution against a data-store snapshot, named value formatters,
// natural-language joins, case transforms, multi-part splitting, and the
// semantic content-key fallback chain.
//
// Resolution never fails. Anything that cannot be resolved degrades to a
// fallback or to the literal authored text.
package template

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc reads one dotted key from a data-store snapshot. The second
// return is false when the key is absent.
type LookupFunc func(key string) (any, bool)

// Resolver substitutes placeholders in authored text. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	formatters map[string]Formatter
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFormatter registers a named formatter, overriding a built-in of the
// same name.
func WithFormatter(name string, f Formatter) Option {
	return func(r *Resolver) {
		r.formatters[name] = f
	}
}

// NewResolver creates a Resolver with the built-in formatters.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{formatters: builtinFormatters()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes every placeholder in raw against the snapshot.
//
// Placeholder grammar: {key}, {key|fallback}, {key:formatter},
// {key:formatter|fallback}, {key:formatter:join}, {key:formatter:case},
// {key:formatter:join:case}. Per placeholder the order is fixed: lookup,
// then formatter, then join, then case. The case transform also applies to
// the fallback text when the fallback path is taken.
//
// An absent key with no fallback leaves the placeholder in place verbatim.
func (r *Resolver) Resolve(raw string, lookup LookupFunc) string {
	if !strings.ContainsRune(raw, '{') {
		return raw
	}

	var out strings.Builder
	out.Grow(len(raw))

	rest := raw
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			out.WriteString(rest)
			return out.String()
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			// Unbalanced: emit the remainder untouched. The validator flags
			// this as a warning at load time.
			out.WriteString(rest)
			return out.String()
		}
		close += open

		out.WriteString(rest[:open])
		body := rest[open+1 : close]
		out.WriteString(r.resolveOne(body, rest[open:close+1], lookup))
		rest = rest[close+1:]
	}
}

// resolveOne resolves a single placeholder body. literal is the original
// placeholder text including braces, returned when nothing resolves.
func (r *Resolver) resolveOne(body, literal string, lookup LookupFunc) string {
	spec := body
	fallback := ""
	hasFallback := false
	if i := strings.IndexByte(body, '|'); i >= 0 {
		spec, fallback = body[:i], body[i+1:]
		hasFallback = true
	}

	parts := strings.Split(spec, ":")
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return literal
	}

	var formatter Formatter
	join := false
	caseName := ""
	for _, mod := range parts[1:] {
		mod = strings.TrimSpace(mod)
		switch {
		case mod == "join":
			join = true
		case isCaseTransform(mod):
			caseName = mod
		default:
			if f, ok := r.formatters[mod]; ok && formatter == nil {
				formatter = f
			}
		}
	}

	value, found := lookup(key)
	if !found || value == nil {
		if !hasFallback {
			return literal
		}
		return applyCase(fallback, caseName)
	}

	if formatter != nil {
		value = formatter(value)
	}

	var text string
	if join {
		text = joinList(value)
	} else {
		text = formatScalar(value)
	}
	return applyCase(text, caseName)
}

// formatScalar renders a stored scalar (or a formatter result) as display text.
func formatScalar(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case bool:
		return strconv.FormatBool(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case []string:
		return strings.Join(n, ", ")
	case []any:
		items := make([]string, len(n))
		for i, e := range n {
			items[i] = formatScalar(e)
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// joinList renders a list value as a natural-language conjunction:
// "A", "A and B", "A, B and C". Non-list values pass through formatScalar.
func joinList(v any) string {
	items := toList(v)
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func toList(v any) []string {
	switch n := v.(type) {
	case []string:
		return n
	case []any:
		items := make([]string, len(n))
		for i, e := range n {
			items[i] = formatScalar(e)
		}
		return items
	case string:
		if n == "" {
			return nil
		}
		parts := strings.Split(n, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return items
	case nil:
		return nil
	default:
		return []string{formatScalar(v)}
	}
}

func isCaseTransform(name string) bool {
	switch name {
	case "upper", "lower", "proper", "sentence":
		return true
	}
	return false
}

// applyCase applies a case transform. It is always the last step, and it
// also applies to fallback text.
func applyCase(s, name string) string {
	switch name {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	case "proper":
		return properCase(s)
	case "sentence":
		return sentenceCase(s)
	default:
		return s
	}
}

func properCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = sentenceCase(w)
	}
	return strings.Join(words, " ")
}

func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
