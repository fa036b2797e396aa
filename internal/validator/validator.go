// Package validator lints machine definitions for constructs that are legal
// but usually mistakes, such as states no input can ever reach. It assumes
// the definition already passed construction, so everything it reports is a
// warning rather than an error.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/automaton"
)

// Analyze inspects def and returns one human-readable warning per finding.
// A clean definition yields nil. The order is deterministic: unreachable
// states, acceptance problems, missing transitions, unused symbols.
func Analyze(def automaton.Definition) []string {
	var warnings []string

	states := slices.Clone(def.States)
	slices.Sort(states)
	alphabet := slices.Clone(def.Alphabet)
	slices.Sort(alphabet)

	reachable := reachableFrom(def, def.Start)
	for _, s := range states {
		if !reachable[s] {
			warnings = append(warnings, fmt.Sprintf("state %q is unreachable from start state %q", s, def.Start))
		}
	}

	if len(def.Accepting) == 0 {
		warnings = append(warnings, "no accepting states declared; every input is rejected")
	} else {
		alive := reachesAccepting(def)
		for _, s := range states {
			// Unreachable states were already reported above.
			if reachable[s] && !alive[s] {
				warnings = append(warnings, fmt.Sprintf("state %q cannot reach an accepting state; every input entering it is rejected", s))
			}
		}
	}

	for _, s := range states {
		var missing []string
		for _, sym := range alphabet {
			if _, ok := def.Transitions[s][sym]; !ok {
				missing = append(missing, sym.String())
			}
		}
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("state %q has no transition for symbol(s) %s", s, strings.Join(missing, ", ")))
		}
	}

	used := make(map[automaton.Symbol]bool)
	for _, row := range def.Transitions {
		for sym := range row {
			used[sym] = true
		}
	}
	for _, sym := range alphabet {
		if !used[sym] {
			warnings = append(warnings, fmt.Sprintf("symbol %q is never consumed by any transition", sym))
		}
	}

	return warnings
}

// reachableFrom walks the transition graph forward from start.
func reachableFrom(def automaton.Definition, start automaton.State) map[automaton.State]bool {
	visited := make(map[automaton.State]bool)
	queue := []automaton.State{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, to := range def.Transitions[current] {
			if !visited[to] {
				queue = append(queue, to)
			}
		}
	}

	return visited
}

// reachesAccepting walks the transition graph backwards from every accepting
// state, marking the states with at least one path to acceptance. Accepting
// states count as reaching themselves via the empty path.
func reachesAccepting(def automaton.Definition) map[automaton.State]bool {
	incoming := make(map[automaton.State][]automaton.State)
	for from, row := range def.Transitions {
		for _, to := range row {
			incoming[to] = append(incoming[to], from)
		}
	}

	visited := make(map[automaton.State]bool)
	queue := slices.Clone(def.Accepting)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, from := range incoming[current] {
			if !visited[from] {
				queue = append(queue, from)
			}
		}
	}

	return visited
}
