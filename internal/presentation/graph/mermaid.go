package graph

import (
	"fmt"
	"strings"

	"github.com/patterflow/patter/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax for one sequence.
// Shapes carry the message semantics:
//   - first message: ((Circle))
//   - choice / textInput: [/Parallelogram/]
//   - autoroute: {Rhombus}
//   - dataAction: [[Subroutine]]
//   - everything else: [Rectangle]
//
// Cross-sequence jumps render as dashed arrows into a stub node.
func GenerateMermaid(seq *domain.Sequence) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	first, _ := seq.First()
	for i := range seq.Messages {
		msg := &seq.Messages[i]
		safeID := sanitizeMermaidID(msg.ID)

		opener, closer := "[", "]"
		switch {
		case first != nil && msg.ID == first.ID:
			opener, closer = "((", "))"
		case msg.Type.Interactive():
			opener, closer = "[/", "/]"
		case msg.Type == domain.MessageAutoroute:
			opener, closer = "{", "}"
		case msg.Type == domain.MessageDataAction:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, msg.ID, closer))

		if msg.NextMessageID != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(msg.NextMessageID)))
		}
		for _, choice := range msg.Choices {
			writeEdge(&sb, safeID, escapeMermaidLabel(choice.Text), choice.Destination())
		}
		for _, route := range msg.Routes {
			label := escapeMermaidLabel(route.Condition)
			if route.IsDefault {
				label = "default"
			}
			writeEdge(&sb, safeID, label, route.Destination())
		}
	}

	return sb.String()
}

func writeEdge(sb *strings.Builder, from, label string, dst domain.Destination) {
	if dst.Zero() {
		return
	}

	// A sequence id always wins over a message id.
	if dst.SequenceID != "" {
		stub := "seq_" + sanitizeMermaidID(dst.SequenceID)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", stub, dst.SequenceID))
		if label != "" {
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, label, stub))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", from, stub))
		}
		return
	}

	to := sanitizeMermaidID(dst.MessageID)
	if label != "" {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, label, to))
	} else {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
	}
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
