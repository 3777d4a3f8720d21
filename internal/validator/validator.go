// Package validator performs structural validation of authored sequences.
//
// Findings split into errors (the sequence must not be loaded) and warnings
// (logged, non-blocking). A message whose only continuation is a
// cross-sequence jump is a valid terminal point, not a dead end.
package validator

import (
	"fmt"
	"strings"

	"github.com/patterflow/patter/pkg/domain"
)

// Validate checks one sequence and returns every structural finding.
func Validate(seq *domain.Sequence) domain.ValidationResult {
	v := &run{seq: seq, result: domain.ValidationResult{SequenceID: seq.ID}}
	v.checkIdentity()
	if len(seq.Messages) == 0 {
		return v.result
	}
	v.indexMessages()
	v.checkMessages()
	v.checkReachability()
	v.checkNextChains()
	return v.result
}

type run struct {
	seq    *domain.Sequence
	ids    map[string]bool
	result domain.ValidationResult
}

func (v *run) errorf(code, messageID, format string, args ...any) {
	v.result.Errors = append(v.result.Errors, domain.ValidationIssue{
		Severity: domain.SeverityError, Code: code, MessageID: messageID,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (v *run) warnf(code, messageID, format string, args ...any) {
	v.result.Warnings = append(v.result.Warnings, domain.ValidationIssue{
		Severity: domain.SeverityWarning, Code: code, MessageID: messageID,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (v *run) checkIdentity() {
	if strings.TrimSpace(v.seq.ID) == "" {
		v.errorf(domain.IssueEmptyID, "", "sequence id is empty")
	}
	if strings.TrimSpace(v.seq.Name) == "" {
		v.errorf(domain.IssueEmptyName, "", "sequence name is empty")
	}
	if len(v.seq.Messages) == 0 {
		v.errorf(domain.IssueNoMessages, "", "sequence has no messages")
	}
}

func (v *run) indexMessages() {
	v.ids = make(map[string]bool, len(v.seq.Messages))
	for _, m := range v.seq.Messages {
		if v.ids[m.ID] {
			v.errorf(domain.IssueDuplicateMessage, m.ID, "message id %q appears more than once", m.ID)
			continue
		}
		v.ids[m.ID] = true
	}
}

func (v *run) checkMessages() {
	for i := range v.seq.Messages {
		m := &v.seq.Messages[i]

		if !m.Type.Known() {
			v.errorf(domain.IssueUnknownType, m.ID, "unknown message type %q", m.Type)
		}

		if m.NextMessageID != "" && !v.ids[m.NextMessageID] {
			v.errorf(domain.IssueDanglingReference, m.ID,
				"nextMessageId %q does not exist", m.NextMessageID)
		}

		v.checkChoices(m)
		v.checkRoutes(m)

		if m.Type == domain.MessageImage && strings.TrimSpace(m.ImagePath) == "" {
			v.errorf(domain.IssueMissingImagePath, m.ID, "image message has no imagePath")
		}

		if !m.Type.Displayable() && m.HasExplicitDelay && m.Delay > 0 {
			v.warnf(domain.IssueDelayOnSilent, m.ID,
				"%s message carries an explicit delay that will never pace anything", m.Type)
		}

		if unbalancedBraces(m.Text) {
			v.warnf(domain.IssueUnbalancedBraces, m.ID, "text has unbalanced placeholder delimiters")
		}
	}
}

func (v *run) checkChoices(m *domain.Message) {
	for i, c := range m.Choices {
		if c.NextMessageID == "" && c.SequenceID == "" {
			v.errorf(domain.IssueMissingTarget, m.ID,
				"choice %d (%q) has neither nextMessageId nor sequenceId", i, c.Text)
			continue
		}
		if c.NextMessageID != "" && c.SequenceID != "" {
			v.warnf(domain.IssueAmbiguousChoice, m.ID,
				"choice %d (%q) sets both nextMessageId and sequenceId; the sequence jump wins", i, c.Text)
		}
		if c.NextMessageID != "" && !v.ids[c.NextMessageID] {
			v.errorf(domain.IssueDanglingReference, m.ID,
				"choice %d references missing message %q", i, c.NextMessageID)
		}
	}
}

func (v *run) checkRoutes(m *domain.Message) {
	if m.Type == domain.MessageAutoroute && len(m.Routes) == 0 {
		v.errorf(domain.IssueNoRoutes, m.ID, "autoroute message has no routes")
		return
	}

	defaults := 0
	for i, r := range m.Routes {
		if r.IsDefault {
			defaults++
		}
		if r.NextMessageID == "" && r.SequenceID == "" {
			v.errorf(domain.IssueMissingTarget, m.ID,
				"route %d has neither nextMessageId nor sequenceId", i)
			continue
		}
		if r.NextMessageID != "" && !v.ids[r.NextMessageID] {
			v.errorf(domain.IssueDanglingReference, m.ID,
				"route %d references missing message %q", i, r.NextMessageID)
		}
	}

	if m.Type == domain.MessageAutoroute {
		switch {
		case defaults == 0:
			v.errorf(domain.IssueNoDefaultRoute, m.ID, "autoroute message has no default route")
		case defaults > 1:
			v.errorf(domain.IssueExtraDefaultRoute, m.ID,
				"autoroute message has %d default routes, want exactly one", defaults)
		}
	}
}

// checkReachability walks the local graph from the first message via
// next/choice/route edges and warns about any message with no incoming path.
func (v *run) checkReachability() {
	visited := make(map[string]bool, len(v.seq.Messages))
	byID := make(map[string]*domain.Message, len(v.seq.Messages))
	for i := range v.seq.Messages {
		byID[v.seq.Messages[i].ID] = &v.seq.Messages[i]
	}

	queue := []string{v.seq.Messages[0].ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		m, ok := byID[id]
		if !ok {
			continue
		}
		for _, next := range localEdges(m) {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	for _, m := range v.seq.Messages {
		if !visited[m.ID] {
			v.warnf(domain.IssueUnreachable, m.ID, "message is unreachable from the first message")
		}
	}
}

// checkNextChains follows only NextMessageID links and warns on cycles.
func (v *run) checkNextChains() {
	byID := make(map[string]*domain.Message, len(v.seq.Messages))
	for i := range v.seq.Messages {
		byID[v.seq.Messages[i].ID] = &v.seq.Messages[i]
	}

	reported := make(map[string]bool)
	for _, start := range v.seq.Messages {
		seen := map[string]bool{}
		cur := &start
		for cur != nil && cur.NextMessageID != "" {
			if seen[cur.ID] {
				if !reported[cur.ID] {
					reported[cur.ID] = true
					v.warnf(domain.IssueCircularChain, cur.ID, "next-message chain loops back on itself")
				}
				break
			}
			seen[cur.ID] = true
			cur = byID[cur.NextMessageID]
		}
	}
}

// localEdges lists the in-sequence continuations of a message.
// Cross-sequence jumps are deliberately excluded: they are valid terminal
// points of the local graph.
func localEdges(m *domain.Message) []string {
	var edges []string
	if m.NextMessageID != "" {
		edges = append(edges, m.NextMessageID)
	}
	for _, c := range m.Choices {
		if c.NextMessageID != "" {
			edges = append(edges, c.NextMessageID)
		}
	}
	for _, r := range m.Routes {
		if r.NextMessageID != "" {
			edges = append(edges, r.NextMessageID)
		}
	}
	return edges
}

// unbalancedBraces reports template delimiter hygiene issues: any closing
// brace without an opener, or an opener never closed.
func unbalancedBraces(text string) bool {
	depth := 0
	for _, r := range text {
		switch r {
		case '{':
			if depth > 0 {
				return true // nesting is not part of the grammar
			}
			depth++
		case '}':
			if depth == 0 {
				return true
			}
			depth--
		}
	}
	return depth != 0
}
