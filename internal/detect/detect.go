package detect

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"loom/internal/editors"
	"loom/pkg/logging"
)

const probeConcurrency = 3

// Result describes one editor's presence on this machine and in the
// current project.
type Result struct {
	Editor    string
	Installed bool
	InProject bool
}

// installMarkers maps each editor to the home-relative paths whose
// existence indicates the editor has been used on this machine. The
// first existing marker wins.
var installMarkers = map[string][]string{
	"claude":   {".claude", ".claude.json"},
	"cursor":   {".cursor"},
	"codex":    {".codex"},
	"windsurf": {filepath.Join(".codeium", "windsurf")},
	"copilot":  {filepath.Join(".config", "github-copilot"), filepath.Join(".vscode", "extensions")},
}

// Editors probes every supported editor and reports, per editor, whether
// it appears installed on this machine and whether the project already
// carries its configuration directory. Results come back in editor name
// order.
func Editors(ctx context.Context, root, home string) ([]Result, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, err
		}
	}

	var mu sync.Mutex
	results := make([]Result, 0, len(editors.Names()))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for _, adapter := range editors.All() {
		adapter := adapter
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := Result{
				Editor:    adapter.Name,
				Installed: anyExists(home, installMarkers[adapter.Name]),
				InProject: exists(filepath.Join(root, adapter.ConfigDir)),
			}
			logging.Debug("Detect", "%s: installed=%t project=%t", r.Editor, r.Installed, r.InProject)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Editor < results[j].Editor })
	return results, nil
}

// InstalledNames returns the names of editors that look installed,
// sorted. Used as the default editor selection when the document has no
// editors section and no flag was given.
func InstalledNames(ctx context.Context, root, home string) ([]string, error) {
	results, err := Editors(ctx, root, home)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, r := range results {
		if r.Installed {
			names = append(names, r.Editor)
		}
	}
	return names, nil
}

func anyExists(base string, rels []string) bool {
	for _, rel := range rels {
		if exists(filepath.Join(base, rel)) {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
