// SPDX-License-Identifier: MPL-2.0

package document

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"dotsmith/internal/cueerr"
)

//go:embed schema.cue
var documentSchema string

// schemaDefs maps document names to their schema definitions. Documents
// without an entry are passed through unvalidated; the merge never rejects
// a namespace it does not recognize.
var schemaDefs = map[string]string{
	"shared":             "#Shared",
	"aliases":            "#Aliases",
	"functions":          "#Functions",
	"advanced_functions": "#Functions",
	"integration":        "#Integration",
}

// ValidateSchema checks a loaded document against its schema definition.
// JSON is a subset of CUE, so the raw document bytes compile directly and
// are unified with the embedded schema. Only strict-mode tooling calls
// this: the lenient pipeline accepts any well-formed JSON.
func ValidateSchema(doc *Document) error {
	def, ok := schemaDefs[doc.Name]
	if !ok {
		return nil
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(documentSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile document schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(doc.raw, cue.Filename(doc.Path))
	if userValue.Err() != nil {
		return &ValidationError{
			Document: doc.Name,
			Message:  cueerr.Format(userValue.Err(), doc.Path).Error(),
		}
	}

	schema := schemaValue.LookupPath(cue.ParsePath(def))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return &ValidationError{
			Document: doc.Name,
			Message:  cueerr.Format(err, doc.Path).Error(),
		}
	}

	return nil
}

// ValidateAll runs ValidateSchema over every loaded document, returning the
// first violation in load order.
func ValidateAll(m *Merged) error {
	for _, name := range m.Names() {
		doc, _ := m.Document(name)
		if err := ValidateSchema(doc); err != nil {
			return err
		}
	}
	return nil
}
