package global

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loom/internal/tracker"
	"loom/pkg/logging"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ApplyOptions controls how global change requests are applied.
type ApplyOptions struct {
	// SkipGlobal skips every global mutation, recording a warning per skip.
	SkipGlobal bool
	// ProjectRoot is the absolute path recorded in the tracking store.
	ProjectRoot string
	// Store is the tracking store. Nil disables dependency tracking.
	Store *tracker.Store
	// RunID suffixes backup files. A fresh id is generated when empty.
	RunID string
}

// inCI reports whether we are running non-interactively in CI. Global
// mutation is always skipped there.
var inCI = func() bool { return os.Getenv("CI") != "" }

// Apply executes the analyzed global change requests: adds are merged into
// the shared file (after a single backup per file per run) and recorded in
// the tracking store; identical entries are only recorded; conflicts were
// already surfaced by Analyze and are left alone.
//
// Mutations run strictly sequentially. Returns the warnings accumulated
// while applying.
func Apply(requests []ChangeRequest, opts ApplyOptions) ([]string, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()[:8]
	}

	skipAll := opts.SkipGlobal
	skipReason := "global changes skipped by request"
	if !skipAll && inCI() {
		skipAll = true
		skipReason = "global changes are never applied non-interactively in CI"
	}

	var warnings []string
	backedUp := map[string]bool{}

	for _, req := range requests {
		switch req.Action {
		case ActionAdd:
			if skipAll {
				warnings = append(warnings, fmt.Sprintf("%s: global %s %q not added: %s",
					req.Editor, req.Type, req.Name, skipReason))
				continue
			}
			if err := backupOnce(req.GlobalPath, opts.RunID, backedUp); err != nil {
				return warnings, err
			}
			warning, err := mergeEntry(req)
			if warning != "" {
				warnings = append(warnings, warning)
			}
			if err != nil {
				return warnings, err
			}
			logging.Info("Global", "added %s %q to %s", req.Type, req.Name, req.GlobalPath)
			if err := track(req, opts); err != nil {
				return warnings, err
			}
		case ActionSkip:
			// An identical entry still creates a dependency of this project
			// on the shared resource. Conflicts do not.
			if req.ConfigsMatch && !skipAll {
				if err := track(req, opts); err != nil {
					return warnings, err
				}
			}
		}
	}
	return warnings, nil
}

func track(req ChangeRequest, opts ApplyOptions) error {
	if opts.Store == nil || opts.ProjectRoot == "" {
		return nil
	}
	return opts.Store.AddProject(req.Editor, string(req.Type), req.Name, opts.ProjectRoot)
}

// backupOnce writes a single backed-up copy of path per run, before the
// first mutation of that file. Missing files need no backup.
func backupOnce(path, runID string, done map[string]bool) error {
	if done[path] {
		return nil
	}
	done[path] = true

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	backupPath := fmt.Sprintf("%s.backup-%s", path, runID)
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	logging.Debug("Global", "backed up %s to %s", path, backupPath)
	return nil
}

// mergeEntry writes the request's definition under the shared file's nested
// section key, leaving everything else in the file intact. An unparsable
// existing file is rewritten from scratch rather than failing the run: the
// backup taken by backupOnce preserves the corrupt original, and the
// degradation is reported as a warning.
func mergeEntry(req ChangeRequest) (string, error) {
	if err := os.MkdirAll(filepath.Dir(req.GlobalPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", req.GlobalPath, err)
	}

	existing, err := os.ReadFile(req.GlobalPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", req.GlobalPath, err)
	}

	var warning string
	var updated []byte
	switch req.Format {
	case FormatTOML:
		root := map[string]interface{}{}
		if len(existing) > 0 {
			if tomlErr := toml.Unmarshal(existing, &root); tomlErr != nil {
				warning = fmt.Sprintf("%s: %s is not valid TOML, rewriting it (original kept in the run backup): %v",
					req.Editor, req.GlobalPath, tomlErr)
				root = map[string]interface{}{}
			}
		}
		updated, err = renderTOML(root, req.SectionKey, req.Name, req.NewConfig)
	case FormatMarkdown:
		updated = []byte(req.Content)
	default:
		if len(existing) > 0 && !gjson.ValidBytes(existing) {
			warning = fmt.Sprintf("%s: %s is not valid JSON, rewriting it (original kept in the run backup)",
				req.Editor, req.GlobalPath)
			existing = nil
		}
		updated, err = mergeJSON(existing, req.SectionKey, req.Name, req.NewConfig)
	}
	if err != nil {
		return warning, fmt.Errorf("failed to merge %q into %s: %w", req.Name, req.GlobalPath, err)
	}

	if err := os.WriteFile(req.GlobalPath, updated, 0644); err != nil {
		return warning, fmt.Errorf("failed to write %s: %w", req.GlobalPath, err)
	}
	return warning, nil
}

// mergeJSON assumes existing is valid JSON or empty; mergeEntry has already
// degraded a corrupt file to empty.
func mergeJSON(existing []byte, sectionKey, name string, config map[string]interface{}) ([]byte, error) {
	if len(existing) == 0 {
		existing = []byte("{}")
	}
	// sjson treats dots as path separators, so dots inside the entry name
	// must be escaped.
	path := sectionKey + "." + strings.ReplaceAll(name, ".", `\.`)
	out, err := sjson.SetBytesOptions(existing, path, config, &sjson.Options{Optimistic: true})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// renderTOML sets the entry under the dot-joined section key in root and
// marshals the whole document back.
func renderTOML(root map[string]interface{}, sectionKey, name string, config map[string]interface{}) ([]byte, error) {
	current := root
	for _, seg := range strings.Split(sectionKey, ".") {
		next, ok := current[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[seg] = next
		}
		current = next
	}
	current[name] = config

	return toml.Marshal(root)
}
