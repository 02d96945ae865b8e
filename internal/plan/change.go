package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"loom/internal/document"
	"loom/pkg/logging"

	"github.com/tidwall/pretty"
)

// Action classifies what will happen to a file. It is always derived from
// comparing desired content against the current on-disk state, never
// asserted by callers.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionUnchanged Action = "unchanged"
)

// FileChange is one planned filesystem mutation.
type FileChange struct {
	Path        string
	Action      Action
	Content     string
	IsDirectory bool
	Mode        os.FileMode
	Category    string
	// SymlinkTarget makes a create action produce a symlink to the target
	// instead of a regular file. When the filesystem does not support links
	// the applier degrades to a recursive copy of the target.
	SymlinkTarget string
}

// ClassifySymlink derives the action for a desired symlink at path pointing
// at target: create when absent, unchanged when already linked to target,
// update otherwise.
func ClassifySymlink(path, target, category string) FileChange {
	change := FileChange{Path: path, SymlinkTarget: target, Category: category}
	current, err := os.Readlink(path)
	switch {
	case err == nil && current == target:
		change.Action = ActionUnchanged
	case errors.Is(err, os.ErrNotExist):
		change.Action = ActionCreate
	default:
		change.Action = ActionUpdate
	}
	return change
}

// Classify compares desired content against the file at path and derives the
// action: create when the file is absent, unchanged when byte-identical,
// update otherwise.
func Classify(path, content, category string) (FileChange, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileChange{Path: path, Action: ActionCreate, Content: content, Category: category}, nil
		}
		return FileChange{}, fmt.Errorf("failed to read existing file %s: %w", path, err)
	}
	if string(existing) == content {
		return FileChange{Path: path, Action: ActionUnchanged, Content: content, Category: category}, nil
	}
	return FileChange{Path: path, Action: ActionUpdate, Content: content, Category: category}, nil
}

// ClassifyJSON plans a write of a JSON artifact. Unless overwrite is set, the
// desired structure is merged over the existing on-disk JSON with the given
// resolver, so entries other tools wrote into the same file survive. An
// existing file that does not parse as JSON falls back to a full overwrite
// rather than failing the plan.
//
// The change carries the fully merged content, so a dry run can show the
// exact post-merge file.
func ClassifyJSON(path string, desired map[string]interface{}, overwrite bool, resolver document.Resolver, category string) (FileChange, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return FileChange{}, fmt.Errorf("failed to read existing file %s: %w", path, err)
	}

	final := desired
	if err == nil && !overwrite {
		var current map[string]interface{}
		if jsonErr := json.Unmarshal(existing, &current); jsonErr != nil {
			logging.Warn("Planner", "existing %s is not valid JSON, overwriting", path)
		} else {
			final = document.DeepMerge(current, desired, resolver)
		}
	}

	content, err := MarshalJSON(final)
	if err != nil {
		return FileChange{}, err
	}
	return Classify(path, content, category)
}

// Delete plans the removal of path. A path that does not exist classifies as
// unchanged, making delete planning idempotent.
func Delete(path, category string) FileChange {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return FileChange{Path: path, Action: ActionUnchanged, Category: category}
	}
	return FileChange{Path: path, Action: ActionDelete, Category: category}
}

// MarshalJSON renders a JSON structure in the canonical on-disk style:
// two-space indent, trailing newline.
func MarshalJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	opts := &pretty.Options{Indent: "  ", SortKeys: true}
	return string(pretty.PrettyOptions(raw, opts)), nil
}
