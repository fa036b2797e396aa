package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/automaton"
)

// ExampleNew demonstrates the built-in binary mod-three machine.
func ExampleNew() {
	// 1. Create the service. The default registry ships with "mod3".
	svc, err := espalier.New()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Compute remainders for binary inputs.
	ctx := context.Background()
	for _, input := range []string{"1101", "1110", "1111"} {
		r, err := svc.Remainder(ctx, input)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s mod 3 = %d\n", input, r)
	}

	// Output:
	// 1101 mod 3 = 1
	// 1110 mod 3 = 2
	// 1111 mod 3 = 0
}

// ExampleService_Register demonstrates running a custom machine defined with
// pure Go values, without reading anything from the filesystem.
func ExampleService_Register() {
	// 1. Define the machine as a five-tuple. This one accepts binary
	// strings containing an even number of ones.
	def := automaton.Definition{
		States:    []automaton.State{"even", "odd"},
		Alphabet:  []automaton.Symbol{'0', '1'},
		Start:     "even",
		Accepting: []automaton.State{"even"},
		Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
			"even": {'0': "even", '1': "odd"},
			"odd":  {'0': "odd", '1': "even"},
		},
	}

	// 2. Register it under a name.
	svc, err := espalier.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := svc.Register("parity", def); err != nil {
		log.Fatal(err)
	}

	// 3. Run an input through it.
	res, err := svc.Run(context.Background(), "parity", "0110")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("state=%s accepted=%t steps=%d\n", res.State, res.Accepted, res.Steps)

	// Output:
	// state=even accepted=true steps=4
}

// ExampleService_StartSession demonstrates feeding a machine one symbol at a
// time across a durable session.
func ExampleService_StartSession() {
	svc, err := espalier.New()
	if err != nil {
		log.Fatal(err)
	}

	// 1. Start a session on the mod-three machine.
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "mod3", "demo")
	if err != nil {
		log.Fatal(err)
	}

	// 2. Feed the binary digits of six, one at a time.
	for _, d := range "110" {
		sess, err = svc.StepSession(ctx, "demo", automaton.Symbol(d))
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("state=%s steps=%d\n", sess.Current, sess.Steps)

	// Output:
	// state=R0 steps=3
}
