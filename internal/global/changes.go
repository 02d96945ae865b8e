package global

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"loom/pkg/logging"
)

// Format identifies the structured format of a shared global file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	// FormatMarkdown is used for resources that are whole files in a shared
	// directory (one file per prompt) rather than entries in a structured
	// file. GlobalPath then names the individual file and Content holds its
	// desired body.
	FormatMarkdown Format = "markdown"
)

// ResourceType identifies which kind of resource lives in the shared file.
type ResourceType string

const (
	ResourceMCP    ResourceType = "mcp"
	ResourcePrompt ResourceType = "prompt"
)

// RequestAction classifies what will happen to one global entry.
type RequestAction string

const (
	ActionAdd  RequestAction = "add"
	ActionSkip RequestAction = "skip"
)

// ChangeRequest describes one desired entry in an editor's shared global
// file, classified against the file's current content.
type ChangeRequest struct {
	Editor         string
	Type           ResourceType
	Name           string
	Action         RequestAction
	SkipReason     string
	GlobalPath     string
	Format         Format
	SectionKey     string
	NewConfig      map[string]interface{}
	ExistingConfig map[string]interface{}
	ConfigsMatch   bool
	// Content is set instead of NewConfig for FormatMarkdown requests.
	Content string
}

// Analyze classifies each desired item against existing, the current entries
// of the shared global file at path: add when absent, skip/identical when
// present and semantically equal, skip/conflict when present but different.
// A conflicting entry is never silently overwritten; it surfaces as a
// warning instead.
//
// The caller parses the shared file (the editor strategy knows its format
// and section layout) and passes the result in; a missing or unparsable
// file is represented by an empty or nil map.
func Analyze(editor, path string, format Format, sectionKey string, resourceType ResourceType, existing, items map[string]map[string]interface{}) ([]ChangeRequest, []string) {
	var requests []ChangeRequest
	var warnings []string
	for name, cfg := range items {
		req := ChangeRequest{
			Editor:     editor,
			Type:       resourceType,
			Name:       name,
			GlobalPath: path,
			Format:     format,
			SectionKey: sectionKey,
			NewConfig:  cfg,
		}

		current, present := existing[name]
		switch {
		case !present:
			req.Action = ActionAdd
		case configsEqual(current, cfg):
			req.Action = ActionSkip
			req.SkipReason = "identical"
			req.ExistingConfig = current
			req.ConfigsMatch = true
		default:
			req.Action = ActionSkip
			req.SkipReason = "conflict"
			req.ExistingConfig = current
			warnings = append(warnings, fmt.Sprintf(
				"%s: global %s %q already exists in %s with a different definition, not overwriting",
				editor, resourceType, name, path))
		}
		requests = append(requests, req)
	}
	return requests, warnings
}

// AnalyzeFiles classifies per-file global resources (one file per item in a
// shared directory). The classification mirrors Analyze: add when the file
// is absent, skip/identical when byte-identical, skip/conflict otherwise.
func AnalyzeFiles(editor, dir, ext string, resourceType ResourceType, items map[string]string) ([]ChangeRequest, []string) {
	var requests []ChangeRequest
	var warnings []string

	for name, content := range items {
		path := filepath.Join(dir, name+ext)
		req := ChangeRequest{
			Editor:     editor,
			Type:       resourceType,
			Name:       name,
			GlobalPath: path,
			Format:     FormatMarkdown,
			Content:    content,
		}

		existing, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			req.Action = ActionAdd
		case err != nil:
			logging.Warn("Global", "failed to read shared file %s: %v", path, err)
			req.Action = ActionAdd
		case string(existing) == content:
			req.Action = ActionSkip
			req.SkipReason = "identical"
			req.ConfigsMatch = true
		default:
			req.Action = ActionSkip
			req.SkipReason = "conflict"
			warnings = append(warnings, fmt.Sprintf(
				"%s: global %s %q already exists at %s with different content, not overwriting",
				editor, resourceType, name, path))
		}
		requests = append(requests, req)
	}
	return requests, warnings
}

// configsEqual compares two definitions structurally after normalizing both
// through a JSON round trip, so TOML integer/float representation
// differences do not register as conflicts.
func configsEqual(a, b map[string]interface{}) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
