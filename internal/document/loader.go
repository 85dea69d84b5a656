// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Recognized document names, in load order. The merge is keyed by these
// names; the Renderer decides what each one means.
var DefaultDocuments = []string{
	"shared",
	"aliases",
	"functions",
	"advanced_functions",
	"integration",
}

// RequiredDocuments must be present for a generation run to produce a
// usable profile. Lenient runs warn when one is missing; strict runs fail.
var RequiredDocuments = []string{"shared", "aliases"}

type (
	// Document is one named, immutable configuration document.
	Document struct {
		// Name is the document's namespace in the merged configuration,
		// derived from the file stem (aliases.json -> "aliases").
		Name string

		// Path is the file the document was loaded from.
		Path string

		// Root is the parsed, insertion-ordered object tree.
		Root *Object

		// raw holds the original bytes for schema validation.
		raw []byte
	}

	// Merged is the union of all loaded documents, keyed by document name.
	// No cross-document key flattening occurs: each document keeps its own
	// namespace.
	Merged struct {
		order []string
		docs  map[string]*Document
	}

	// ParseError reports malformed JSON in a named document.
	ParseError struct {
		Document string
		Path     string
		Cause    error
	}

	// ReadError reports a filesystem failure while reading a document that
	// exists, such as a permission problem.
	ReadError struct {
		Document string
		Path     string
		Cause    error
	}

	// ValidationError reports a structural problem with the document set,
	// such as two documents claiming the same namespace.
	ValidationError struct {
		Document string
		Message  string
	}

	// Loader reads JSON documents from a config directory.
	Loader struct {
		dir    string
		logger *log.Logger
	}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("document %q: malformed JSON: %v", e.Document, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("document %q: reading %s: %v", e.Document, e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document %q: %s", e.Document, e.Message)
}

// NewLoader creates a loader reading documents from dir. A nil logger
// silences the loader.
func NewLoader(dir string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads the named documents from the loader's directory and merges
// them. A missing file is not an error: partially populated configurations
// are expected, and the Renderer decides what it can produce from what is
// present. A document that exists but fails to parse aborts the load with
// a ParseError; one that exists but cannot be read aborts with a ReadError.
// Two documents resolving to the same namespace abort with a
// ValidationError so that neither silently wins.
func (l *Loader) Load(names []string) (*Merged, error) {
	merged := &Merged{docs: make(map[string]*Document)}

	for _, name := range names {
		path := filepath.Join(l.dir, name+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("document not found, skipping", "document", name, "path", path)
				continue
			}
			return nil, &ReadError{Document: name, Path: path, Cause: err}
		}

		doc, err := Parse(name, path, data)
		if err != nil {
			return nil, err
		}

		if err := merged.add(doc); err != nil {
			return nil, err
		}
		l.logger.Debug("document loaded", "document", name, "keys", doc.Root.Len())
	}

	l.logger.Info("documents merged", "count", len(merged.order))
	return merged, nil
}

// Parse decodes a single document from raw JSON bytes.
func Parse(name, path string, data []byte) (*Document, error) {
	root := NewObject()
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, &ParseError{Document: name, Path: path, Cause: err}
	}
	return &Document{Name: name, Path: path, Root: root, raw: data}, nil
}

// add inserts a document into the merge, rejecting duplicate namespaces.
func (m *Merged) add(doc *Document) error {
	if _, exists := m.docs[doc.Name]; exists {
		return &ValidationError{
			Document: doc.Name,
			Message:  "duplicate document namespace: already loaded from another document",
		}
	}
	m.order = append(m.order, doc.Name)
	m.docs[doc.Name] = doc
	return nil
}

// Names returns the loaded document names in load order.
func (m *Merged) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Has reports whether a document with the given name was loaded.
func (m *Merged) Has(name string) bool {
	_, ok := m.docs[name]
	return ok
}

// Document returns the named document, if loaded.
func (m *Merged) Document(name string) (*Document, bool) {
	d, ok := m.docs[name]
	return d, ok
}

// Object returns the root object of the named document, if loaded.
func (m *Merged) Object(name string) (*Object, bool) {
	d, ok := m.docs[name]
	if !ok {
		return nil, false
	}
	return d.Root, true
}

// MissingRequired returns the names from RequiredDocuments that are absent
// from the merge, in declaration order.
func (m *Merged) MissingRequired() []string {
	var missing []string
	for _, name := range RequiredDocuments {
		if !m.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
