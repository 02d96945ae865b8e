package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"loom/pkg/logging"

	"sigs.k8s.io/yaml"
)

// documentFileNames are probed in order when discovering a document.
var documentFileNames = []string{"loom.yaml", "loom.yml", "loom.json"}

// localOverrideNames are probed in order for the optional local override
// document, which is merged over the main document before projection.
var localOverrideNames = []string{"loom.local.yaml", "loom.local.yml", "loom.local.json"}

// Find locates the configuration document in root. Returns an error when no
// document exists.
func Find(root string) (string, error) {
	for _, name := range documentFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no configuration document (loom.yaml) found in %s", root)
}

// FindLocalOverride locates the optional local override document in root.
// Returns an empty path when there is none.
func FindLocalOverride(root string) string {
	for _, name := range localOverrideNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and decodes a document file. YAML and JSON are both accepted;
// YAML is converted to JSON before decoding so the Item union sees a single
// representation.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("document %s not found", path)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	logging.Debug("Document", "loaded %s with %d sections", path, len(doc))
	return doc, nil
}

// LoadWithOverride loads the document in root and, when a local override
// document exists, merges the override over it.
func LoadWithOverride(root string) (Document, error) {
	path, err := Find(root)
	if err != nil {
		return nil, err
	}
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	overridePath := FindLocalOverride(root)
	if overridePath == "" {
		return doc, nil
	}
	override, err := Load(overridePath)
	if err != nil {
		return nil, err
	}
	logging.Info("Document", "merging local override %s", overridePath)
	return MergeDocuments(doc, override), nil
}

// Validator accepts or rejects a candidate document before it is projected.
// Schema validation proper lives outside the core; this contract is what the
// core consumes.
type Validator interface {
	Validate(doc Document) error
}

// StructuralValidator is the minimal built-in validator: it rejects unknown
// section names and nothing else.
type StructuralValidator struct{}

// Validate implements Validator.
func (StructuralValidator) Validate(doc Document) error {
	for section := range doc {
		if !knownSection(section) {
			return fmt.Errorf("unknown section %q in document", section)
		}
	}
	return nil
}

func knownSection(s Section) bool {
	for _, known := range Sections() {
		if known == s {
			return true
		}
	}
	return false
}
