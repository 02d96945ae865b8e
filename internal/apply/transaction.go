package apply

import (
	"fmt"
	"os"
	"path/filepath"

	"loom/internal/plan"
	"loom/pkg/logging"
)

// preImage captures the state of a path before the transaction touched it.
type preImage struct {
	path       string
	existed    bool
	isLink     bool
	isDir      bool
	linkTarget string
	content    []byte
	mode       os.FileMode
}

// Apply executes the change list as one sequential transaction. Before each
// mutation the prior state of the path is captured; if any step fails, the
// captured pre-images are replayed in the order they were applied, restoring
// removed files and deleting files that did not previously exist, and the
// original error is returned wrapped.
//
// Changes are applied strictly one at a time. Interleaving writes would make
// the pre-image capture, and therefore rollback, incorrect.
func Apply(changes []plan.FileChange) error {
	var applied []preImage

	for _, change := range changes {
		if change.Action == plan.ActionUnchanged || change.IsDirectory {
			continue
		}

		img, err := capture(change.Path)
		if err != nil {
			rollback(applied)
			return fmt.Errorf("apply aborted at %s: %w", change.Path, err)
		}

		if err := execute(change); err != nil {
			// The failing step may have mutated before erroring (a link
			// placement removes the old file first, a mode change follows the
			// write), so its own pre-image is part of the rollback set.
			rollback(append(applied, img))
			return fmt.Errorf("apply aborted at %s: %w", change.Path, err)
		}
		applied = append(applied, img)
	}

	logging.Debug("Apply", "applied %d changes", len(applied))
	return nil
}

func capture(path string) (preImage, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return preImage{path: path, existed: false}, nil
		}
		return preImage{}, err
	}
	img := preImage{path: path, existed: true, mode: info.Mode().Perm()}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		img.isLink = true
		img.linkTarget, err = os.Readlink(path)
		if err != nil {
			return preImage{}, err
		}
	case info.IsDir():
		img.isDir = true
	default:
		img.content, err = os.ReadFile(path)
		if err != nil {
			return preImage{}, err
		}
	}
	return img, nil
}

func execute(change plan.FileChange) error {
	switch change.Action {
	case plan.ActionDelete:
		if err := os.Remove(change.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	case plan.ActionCreate, plan.ActionUpdate:
		if err := os.MkdirAll(filepath.Dir(change.Path), 0755); err != nil {
			return err
		}
		if change.SymlinkTarget != "" {
			return placeLink(change.Path, change.SymlinkTarget)
		}
		if err := os.WriteFile(change.Path, []byte(change.Content), 0644); err != nil {
			return err
		}
		if change.Mode != 0 {
			return os.Chmod(change.Path, change.Mode)
		}
		return nil
	default:
		return fmt.Errorf("unexpected action %q", change.Action)
	}
}

// placeLink points path at target. Filesystems without symlink support get a
// recursive copy of the target instead of a failure.
func placeLink(path, target string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	if err := os.Symlink(target, path); err == nil {
		return nil
	}
	logging.Warn("Apply", "symlink unsupported for %s, copying %s instead", path, target)
	return copyTree(target, path)
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, info.Mode().Perm())
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// rollback replays pre-images in the order they were applied. Restoration is
// best-effort: a failure while restoring one pre-image is logged and the
// remaining pre-images are still replayed.
func rollback(applied []preImage) {
	if len(applied) == 0 {
		return
	}
	logging.Warn("Apply", "rolling back %d applied changes", len(applied))

	for _, img := range applied {
		var err error
		switch {
		case !img.existed:
			err = os.RemoveAll(img.path)
		case img.isLink:
			if err = os.RemoveAll(img.path); err == nil {
				err = os.Symlink(img.linkTarget, img.path)
			}
		case img.isDir:
			// A pre-existing directory was only ever deleted or replaced by a
			// link; recreating the empty directory is the best restoration
			// available without a recursive snapshot.
			err = os.MkdirAll(img.path, img.mode)
		default:
			if mkErr := os.MkdirAll(filepath.Dir(img.path), 0755); mkErr == nil {
				err = os.WriteFile(img.path, img.content, img.mode)
			} else {
				err = mkErr
			}
		}
		if err != nil {
			logging.Error("Apply", err, "failed to restore %s during rollback", img.path)
		}
	}
}
