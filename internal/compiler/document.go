package compiler

import (
	"unicode/utf8"

	"github.com/aretw0/espalier/pkg/automaton"
)

// Document is the on-disk form of a machine definition (YAML or JSON).
// It uses "mapstructure" tags so both formats decode through one weakly
// typed path; bare YAML/JSON digits like 0 or 1 arrive as numbers and are
// still accepted as symbols.
type Document struct {
	Name        string                       `yaml:"name" json:"name" mapstructure:"name"`
	States      []string                     `yaml:"states" json:"states" mapstructure:"states"`
	Alphabet    []string                     `yaml:"alphabet" json:"alphabet" mapstructure:"alphabet"`
	Start       string                       `yaml:"start" json:"start" mapstructure:"start"`
	Accepting   []string                     `yaml:"accepting" json:"accepting" mapstructure:"accepting"`
	Transitions map[string]map[string]string `yaml:"transitions" json:"transitions" mapstructure:"transitions"`
}

// Definition converts the document into the engine's five-tuple. Symbols
// must be single characters; everything else is left to engine validation.
func (d *Document) Definition() (automaton.Definition, error) {
	def := automaton.Definition{
		States:    make([]automaton.State, 0, len(d.States)),
		Alphabet:  make([]automaton.Symbol, 0, len(d.Alphabet)),
		Start:     automaton.State(d.Start),
		Accepting: make([]automaton.State, 0, len(d.Accepting)),
	}

	for _, s := range d.States {
		def.States = append(def.States, automaton.State(s))
	}
	for _, s := range d.Alphabet {
		sym, err := symbolOf(s, "alphabet")
		if err != nil {
			return automaton.Definition{}, err
		}
		def.Alphabet = append(def.Alphabet, sym)
	}
	for _, s := range d.Accepting {
		def.Accepting = append(def.Accepting, automaton.State(s))
	}

	if d.Transitions != nil {
		def.Transitions = make(map[automaton.State]map[automaton.Symbol]automaton.State, len(d.Transitions))
		for from, row := range d.Transitions {
			edges := make(map[automaton.Symbol]automaton.State, len(row))
			for s, to := range row {
				sym, err := symbolOf(s, "transitions")
				if err != nil {
					return automaton.Definition{}, err
				}
				edges[sym] = automaton.State(to)
			}
			def.Transitions[automaton.State(from)] = edges
		}
	}

	return def, nil
}

func symbolOf(s, field string) (automaton.Symbol, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, &automaton.ConfigError{Field: field, Reason: "symbol must be a single character", Value: s}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return automaton.Symbol(r), nil
}

// FromDefinition is the inverse of Definition, yielding a document that
// serializes cleanly. Symbols become one-character strings since JSON and
// YAML would otherwise render them as code points.
func FromDefinition(name string, def automaton.Definition) Document {
	doc := Document{
		Name:      name,
		States:    make([]string, 0, len(def.States)),
		Alphabet:  make([]string, 0, len(def.Alphabet)),
		Start:     string(def.Start),
		Accepting: make([]string, 0, len(def.Accepting)),
	}

	for _, s := range def.States {
		doc.States = append(doc.States, string(s))
	}
	for _, sym := range def.Alphabet {
		doc.Alphabet = append(doc.Alphabet, sym.String())
	}
	for _, s := range def.Accepting {
		doc.Accepting = append(doc.Accepting, string(s))
	}

	if def.Transitions != nil {
		doc.Transitions = make(map[string]map[string]string, len(def.Transitions))
		for from, row := range def.Transitions {
			edges := make(map[string]string, len(row))
			for sym, to := range row {
				edges[sym.String()] = string(to)
			}
			doc.Transitions[string(from)] = edges
		}
	}

	return doc
}
