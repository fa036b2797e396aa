/*
Package dsl provides a fluent builder for constructing machine definitions in Go.

It allows developers to define automata using a type-safe, chainable API
instead of relying on external YAML or JSON files. This is particularly useful
for dynamic machine generation, unit testing, and leveraging IDE
autocompletion/type-checking.

Example usage:

	b := dsl.New("R0")

	b.State("R0").Accept().
		On('0', "R0").
		On('1', "R1")

	b.State("R1").Accept().
		On('0', "R2").
		On('1', "R0")

	b.State("R2").Accept().
		On('0', "R1").
		On('1', "R2")

	def, err := b.Build()
	// ... register def with a Service or pass it to automaton.New
*/
package dsl
