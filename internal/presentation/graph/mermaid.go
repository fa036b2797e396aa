package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/automaton"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	Current automaton.State
}

// Mermaid produces a Mermaid flowchart from a machine definition.
// It follows the usual automaton drawing conventions:
//   - an unlabeled entry marker points at the start state
//   - accepting states: (((double circle)))
//   - other states: ((circle))
//
// Parallel edges between the same pair of states merge into one arrow with a
// comma-separated symbol label. Output is deterministic: states and labels
// are emitted in sorted order. An overlay highlights the current state.
func Mermaid(def automaton.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	accepting := make(map[automaton.State]struct{}, len(def.Accepting))
	for _, s := range def.Accepting {
		accepting[s] = struct{}{}
	}

	states := slices.Clone(def.States)
	slices.Sort(states)

	sb.WriteString(fmt.Sprintf("    _start((\" \")) --> %s\n", sanitizeMermaidID(string(def.Start))))

	for _, s := range states {
		safeID := sanitizeMermaidID(string(s))

		opener, closer := "((", "))"
		if _, ok := accepting[s]; ok {
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, s, closer))
	}

	for _, from := range states {
		row := def.Transitions[from]
		if len(row) == 0 {
			continue
		}

		byTarget := make(map[automaton.State][]string, len(row))
		for sym, to := range row {
			byTarget[to] = append(byTarget[to], escapeLabel(sym.String()))
		}

		targets := make([]automaton.State, 0, len(byTarget))
		for to := range byTarget {
			targets = append(targets, to)
		}
		slices.Sort(targets)

		safeFrom := sanitizeMermaidID(string(from))
		for _, to := range targets {
			labels := byTarget[to]
			slices.Sort(labels)
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				safeFrom, strings.Join(labels, ","), sanitizeMermaidID(string(to))))
		}
	}

	if overlay != nil && overlay.Current != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.Current))))
	}

	return sb.String()
}

// escapeLabel keeps symbol characters from breaking Mermaid label syntax.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
