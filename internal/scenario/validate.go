package scenario

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

func schema() (cue.Value, error) {
	schemaOnce.Do(func() {
		v := cuecontext.New().CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = err
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = err
		}
	})
	return schemaValue, schemaErr
}

// ValidateYAML unifies raw scenario YAML with the embedded schema. It runs
// before the strict decode so schema violations report CUE's field-level
// messages instead of Go type errors.
func ValidateYAML(filename string, data []byte) error {
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("scenario schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	doc := sch.Context().BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}

	if err := sch.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("scenario %s:\n%s", filename, cueerrors.Details(err, nil))
	}
	return nil
}
