/*
Package espalier is a deterministic finite automaton (DFA) engine with a
batteries-included service layer: named machine catalogs, durable sessions,
and a built-in divisibility-by-three machine for binary numbers.

It separates the machine definition (the five-tuple) from execution state
(the current position), so definitions can be shared freely while each run
gets its own cheap instance. This hexagonal layout lets the engine be
embedded anywhere: CLI, HTTP server, or another Go program.

# Key Features

  - Deterministic Execution: a run's outcome depends only on the definition
    and the input, never on earlier runs.
  - Validated Definitions: the five-tuple is checked on construction, so a
    running machine cannot hit an undeclared state or symbol by accident.
  - Durable Sessions: feed symbols one at a time, stop, and resume later,
    with in-memory, file, or Redis persistence and cross-replica locking.
  - Typed Failures: invalid symbols, undefined transitions, and rejected
    inputs are distinct error kinds, matchable with errors.As.

# Usage

The Service facade covers most needs. Machines are addressed by name; the
built-in "mod3" machine computes binary remainders modulo three.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
	)

	func main() {
		svc, err := espalier.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()

		// Remainder of 0b1101 (13) divided by 3.
		r, err := svc.Remainder(ctx, "1101")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(r) // 1

		// The same machine, addressed generically.
		res, err := svc.Run(ctx, "mod3", "1101")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.State) // R1
	}

For direct control over a single machine, use pkg/automaton; for the fixed
remainder machine without the service layer, use pkg/modthree.
*/
package espalier
