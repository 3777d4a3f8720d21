package domain

import (
	"fmt"
	"strings"
)

// IssueSeverity splits validation findings into blocking and advisory.
type IssueSeverity string

const (
	// SeverityError blocks loading the sequence.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is logged but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes. Stable identifiers so hosts can filter programmatically.
const (
	IssueEmptyID           = "empty_id"
	IssueEmptyName         = "empty_name"
	IssueNoMessages        = "no_messages"
	IssueDuplicateMessage  = "duplicate_message_id"
	IssueUnknownType       = "unknown_message_type"
	IssueDanglingReference = "dangling_reference"
	IssueMissingTarget     = "missing_target"
	IssueNoRoutes          = "no_routes"
	IssueNoDefaultRoute    = "no_default_route"
	IssueExtraDefaultRoute = "multiple_default_routes"
	IssueMissingImagePath  = "missing_image_path"
	IssueUnreachable       = "unreachable_message"
	IssueCircularChain     = "circular_next_chain"
	IssueAmbiguousChoice   = "ambiguous_choice_target"
	IssueDelayOnSilent     = "delay_on_silent_message"
	IssueUnbalancedBraces  = "unbalanced_placeholder"
)

// ValidationIssue is one structural finding about a sequence.
type ValidationIssue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	MessageID string        `json:"messageId,omitempty"`
	Detail    string        `json:"detail"`
}

func (i ValidationIssue) String() string {
	if i.MessageID == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Detail)
	}
	return fmt.Sprintf("[%s] %s (message %q): %s", i.Severity, i.Code, i.MessageID, i.Detail)
}

// ValidationResult collects the findings for one sequence.
type ValidationResult struct {
	SequenceID string            `json:"sequenceId"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
	Warnings   []ValidationIssue `json:"warnings,omitempty"`
}

// OK reports whether the sequence may be loaded (no blocking errors).
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Err folds the blocking errors into a single error value, or nil.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, 0, len(r.Errors))
	for _, i := range r.Errors {
		lines = append(lines, i.String())
	}
	return fmt.Errorf("sequence %q has %d validation error(s):\n- %s",
		r.SequenceID, len(r.Errors), strings.Join(lines, "\n- "))
}
