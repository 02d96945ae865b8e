package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Content is the resolved body of a skill, rule, or prompt reference.
type Content struct {
	Body       string
	SourcePath string
}

// ContentLoader resolves a reference (local path, version-control reference,
// package-registry reference) into content. The projection core only ever
// consumes this contract; remote implementations live outside it.
type ContentLoader interface {
	Load(ctx context.Context, ref string) (Content, error)
}

// NotFoundError reports a reference that cannot be resolved at all. It is
// raised before any file is written for a target, so a bad reference never
// causes partial application.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content reference %q could not be resolved", e.Ref)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// FileLoader resolves references against the local filesystem. Relative
// references are resolved against Base.
type FileLoader struct {
	Base string
}

// Load implements ContentLoader.
func (l *FileLoader) Load(ctx context.Context, ref string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	if strings.Contains(ref, "://") {
		return Content{}, fmt.Errorf("remote reference %q requires a remote-capable loader", ref)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Base, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Content{}, &NotFoundError{Ref: ref}
		}
		return Content{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Content{Body: string(data), SourcePath: path}, nil
}

// MapLoader is an in-memory ContentLoader used by tests.
type MapLoader map[string]string

// Load implements ContentLoader.
func (l MapLoader) Load(ctx context.Context, ref string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	body, ok := l[ref]
	if !ok {
		return Content{}, &NotFoundError{Ref: ref}
	}
	return Content{Body: body, SourcePath: ref}, nil
}
