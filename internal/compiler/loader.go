package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/espalier/pkg/automaton"
)

// LoadDir compiles every definition file (.yaml, .yml, .json) in dir and
// returns them keyed by machine name. A missing directory yields an empty
// map, treating it as "no machines configured". Two files resolving to the
// same name is an error: silent last-wins would make the loaded set depend
// on directory order.
func LoadDir(dir string) (map[string]automaton.Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]automaton.Definition{}, nil
		}
		return nil, fmt.Errorf("failed to read definitions dir: %w", err)
	}

	defs := make(map[string]automaton.Definition)
	sources := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		name, def, err := Compile(path)
		if err != nil {
			return nil, err
		}

		if prev, dup := sources[name]; dup {
			return nil, fmt.Errorf("duplicate machine name %q: defined in %s and %s", name, prev, path)
		}
		sources[name] = path
		defs[name] = def
	}

	return defs, nil
}
