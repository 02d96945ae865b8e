package editors

import (
	"fmt"
	"path/filepath"
	"sort"

	"loom/internal/plan"
)

// Generic hook event names accepted in the document's hooks section.
const (
	EventBeforeShell  = "before-shell"
	EventAfterEdit    = "after-edit"
	EventSessionStart = "session-start"
	EventStop         = "stop"
)

// claudeEvent is one entry of the fixed generic-to-claude translation table.
type claudeEvent struct {
	Name    string
	Matcher string
}

var claudeEventTable = map[string]claudeEvent{
	EventBeforeShell:  {Name: "PreToolUse", Matcher: "Bash"},
	EventAfterEdit:    {Name: "PostToolUse", Matcher: "Edit|MultiEdit|Write"},
	EventSessionStart: {Name: "SessionStart"},
	EventStop:         {Name: "Stop"},
}

// claudeHooks renders hook configuration into the claude settings file.
type claudeHooks struct {
	relPath string
}

func (s claudeHooks) Supported() bool { return true }

func (s claudeHooks) ConfigPath(root string) string {
	return filepath.Join(root, s.relPath)
}

func (s claudeHooks) UnsupportedEvents(hooks HooksConfig) []string {
	var missing []string
	for event := range hooks {
		if _, ok := claudeEventTable[event]; !ok {
			missing = append(missing, event)
		}
	}
	sort.Strings(missing)
	return missing
}

func (s claudeHooks) FormatConfig(hooks HooksConfig) (string, error) {
	buckets := map[string]interface{}{}

	events := make([]string, 0, len(hooks))
	for event := range hooks {
		events = append(events, event)
	}
	sort.Strings(events)

	for _, event := range events {
		translated, ok := claudeEventTable[event]
		if !ok {
			continue
		}
		var entries []interface{}
		for _, action := range hooks[event] {
			matcher := action.Matcher
			if matcher == "" {
				matcher = translated.Matcher
			}
			hook := map[string]interface{}{
				"type":    "command",
				"command": action.Command,
			}
			if action.Timeout > 0 {
				hook["timeout"] = action.Timeout
			}
			entry := map[string]interface{}{
				"hooks": []interface{}{hook},
			}
			if matcher != "" {
				entry["matcher"] = matcher
			}
			entries = append(entries, entry)
		}
		existing, _ := buckets[translated.Name].([]interface{})
		buckets[translated.Name] = append(existing, entries...)
	}

	content, err := plan.MarshalJSON(map[string]interface{}{"hooks": buckets})
	if err != nil {
		return "", fmt.Errorf("failed to render hooks config: %w", err)
	}
	return content, nil
}

// unsupportedHooks is for editors without a hook mechanism. Every input
// event is reported as untranslatable.
type unsupportedHooks struct{}

func (unsupportedHooks) Supported() bool               { return false }
func (unsupportedHooks) ConfigPath(root string) string { return "" }

func (unsupportedHooks) FormatConfig(HooksConfig) (string, error) {
	return "", fmt.Errorf("hooks are not supported by this editor")
}

func (unsupportedHooks) UnsupportedEvents(hooks HooksConfig) []string {
	var all []string
	for event := range hooks {
		all = append(all, event)
	}
	sort.Strings(all)
	return all
}
