package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"loom/pkg/logging"
)

const storeVersion = 1

// Entry records that one or more projects depend on a resource installed in
// an editor's shared global file. Invariant: an entry with an empty Projects
// list is never persisted.
type Entry struct {
	Editor   string    `json:"editor"`
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Projects []string  `json:"projects"`
	AddedAt  time.Time `json:"addedAt"`
}

// Key returns the store key for an entry identity.
func Key(editor, resourceType, name string) string {
	return fmt.Sprintf("%s:%s:%s", editor, resourceType, name)
}

type storeFile struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Store persists tracking entries in a single well-known file. Every
// operation is load-mutate-save; the store is never held in memory across
// calls. Concurrent process safety is a known limitation.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the canonical tracking store location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".loom", "tracking.json"), nil
}

// load reads the store, tolerating a missing or corrupt file by treating it
// as empty.
func (s *Store) load() storeFile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("Tracker", "failed to read tracking store %s: %v", s.path, err)
		}
		return storeFile{Version: storeVersion, Entries: map[string]Entry{}}
	}

	var sf storeFile
	if err := json.Unmarshal(data, &sf); err != nil {
		logging.Warn("Tracker", "tracking store %s is corrupt, treating as empty", s.path)
		return storeFile{Version: storeVersion, Entries: map[string]Entry{}}
	}
	if sf.Entries == nil {
		sf.Entries = map[string]Entry{}
	}
	sf.Version = storeVersion
	return sf
}

func (s *Store) save(sf storeFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create tracking store directory: %w", err)
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tracking store: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write tracking store %s: %w", s.path, err)
	}
	return nil
}

// AddProject records that project depends on the given global resource.
// Re-adding an already-tracked project is a no-op.
func (s *Store) AddProject(editor, resourceType, name, project string) error {
	sf := s.load()
	key := Key(editor, resourceType, name)

	entry, ok := sf.Entries[key]
	if !ok {
		entry = Entry{
			Editor:  editor,
			Type:    resourceType,
			Name:    name,
			AddedAt: time.Now().UTC(),
		}
	}
	for _, p := range entry.Projects {
		if p == project {
			return nil
		}
	}
	entry.Projects = append(entry.Projects, project)
	sort.Strings(entry.Projects)
	sf.Entries[key] = entry

	logging.Debug("Tracker", "tracking %s for project %s (%d projects)", key, project, len(entry.Projects))
	return s.save(sf)
}

// RemoveProject drops project from the entry's project set. Removing the
// last project deletes the entry in the same save.
func (s *Store) RemoveProject(editor, resourceType, name, project string) error {
	sf := s.load()
	key := Key(editor, resourceType, name)

	entry, ok := sf.Entries[key]
	if !ok {
		return nil
	}

	remaining := entry.Projects[:0]
	for _, p := range entry.Projects {
		if p != project {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		delete(sf.Entries, key)
		logging.Debug("Tracker", "entry %s unreferenced, deleted", key)
	} else {
		entry.Projects = remaining
		sf.Entries[key] = entry
	}
	return s.save(sf)
}

// Get returns the entry for the identity, if tracked. The store never
// verifies that the shared file still physically contains the resource.
func (s *Store) Get(editor, resourceType, name string) (Entry, bool) {
	sf := s.load()
	entry, ok := sf.Entries[Key(editor, resourceType, name)]
	return entry, ok
}

// Entries returns all tracked entries keyed by entry key.
func (s *Store) Entries() map[string]Entry {
	return s.load().Entries
}

// ProjectEntries returns the entries that reference the given project.
func (s *Store) ProjectEntries(project string) []Entry {
	var out []Entry
	for _, entry := range s.load().Entries {
		for _, p := range entry.Projects {
			if p == project {
				out = append(out, entry)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return Key(out[i].Editor, out[i].Type, out[i].Name) < Key(out[j].Editor, out[j].Type, out[j].Name)
	})
	return out
}
