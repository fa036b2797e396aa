package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/automaton"
)

// Parse decodes raw YAML content into a Document.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return decode(raw)
}

// ParseJSON decodes raw JSON content into a Document.
func ParseJSON(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return decode(raw)
}

// ParseFile reads a definition file, dispatching on the extension
// (.json is JSON, everything else is treated as YAML).
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return ParseJSON(data)
	}
	return Parse(data)
}

// Compile parses a definition file and converts it into a validated,
// normalized five-tuple. The returned name falls back to the file stem when
// the document does not carry one.
func Compile(path string) (string, automaton.Definition, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return "", automaton.Definition{}, err
	}

	def, err := doc.Definition()
	if err != nil {
		return "", automaton.Definition{}, fmt.Errorf("%s: %w", path, err)
	}

	// Build a throwaway instance to validate and normalize.
	eng, err := automaton.New(def)
	if err != nil {
		return "", automaton.Definition{}, fmt.Errorf("%s: %w", path, err)
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return name, eng.Definition(), nil
}

// decode maps a raw document onto the Document struct. Weak typing lets
// YAML/JSON scalars like 0 or 1 pass as the symbol strings "0" and "1".
func decode(raw map[string]any) (*Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}
