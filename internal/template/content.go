package template

import "strings"

// ContentLookupFunc reads one hierarchical key from the content library.
type ContentLookupFunc func(key string) (string, bool)

// genericSubject is the bucket a content key's subject degrades to when no
// subject-specific block exists.
const genericSubject = "generic"

// ResolveContent resolves a semantic content key of the shape
// actor.action.subject[.modifier]* against the content library.
//
// Candidates are tried in order, one lookup each, first non-empty hit wins:
//
//  1. the exact key
//  2. the key with the rightmost modifier dropped, repeatedly, down to
//     actor.action.subject
//  3. the subject replaced by the generic bucket, with the full modifier
//     list, then dropping modifiers again down to actor.action.generic
//  4. the actor.action default
//
// When nothing hits, the message's literal text is returned. This function
// never errors.
func ResolveContent(key, literal string, lookup ContentLookupFunc) string {
	for _, candidate := range contentCandidates(key) {
		if text, ok := lookup(candidate); ok && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return literal
}

func contentCandidates(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ".")
	if len(parts) < 3 {
		// Too shallow for the fallback chain; try it as-is only.
		return []string{key}
	}

	var candidates []string
	appendChain := func(parts []string) {
		// Full key first, then drop modifiers right-to-left down to
		// actor.action.subject.
		for n := len(parts); n >= 3; n-- {
			candidates = append(candidates, strings.Join(parts[:n], "."))
		}
	}

	appendChain(parts)

	if parts[2] != genericSubject {
		generic := make([]string, len(parts))
		copy(generic, parts)
		generic[2] = genericSubject
		appendChain(generic)
	}

	candidates = append(candidates, parts[0]+"."+parts[1])
	return candidates
}
