package dsl_test

import (
	"fmt"
	"log"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/dsl"
)

// ExampleBuilder defines a parity checker without touching YAML or JSON.
func ExampleBuilder() {
	b := dsl.New("even")

	b.State("even").Accept().
		On('0', "even").
		On('1', "odd")

	b.State("odd").
		On('0', "odd").
		On('1', "even")

	def, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	a, err := automaton.New(def)
	if err != nil {
		log.Fatal(err)
	}

	state, err := a.Run("1100")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("1100 ends in %s\n", state)

	// Output:
	// 1100 ends in even
}
