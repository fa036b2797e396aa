/*
Package automaton implements a deterministic finite automaton (DFA) engine.

An automaton is described by a five-tuple Definition: states, input alphabet,
transition function, start state and accepting states. The definition is
validated once at construction and copied into the instance; after that the
only mutable piece is the current state, which moves through Step, Run, Reset
and Restore.

The package is kept pure: no I/O, no external dependencies. Observability is
injected by the caller through WithLogger and WithHooks.

# Key Entities

  - Definition: the caller-supplied five-tuple. Safe to share read-only.
  - Automaton: a validated instance with a mutable current state, owned by
    one logical caller at a time.
  - ConfigError, InvalidSymbolError, UndefinedTransitionError, RejectedError,
    InputError: the typed failure modes, distinguishable with errors.As.
*/
package automaton
