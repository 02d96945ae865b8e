// Package global manages configuration entries that live in an editor's
// single machine-wide file shared by every project, rather than in
// per-project files.
//
// Analyze classifies each desired entry against the shared file's current
// content (add, skip/identical, skip/conflict); Apply merges the additions
// into the shared file after backing it up once per run, and records each
// project's dependency in the tracking store so that shared entries can be
// reference-counted across projects.
//
// Shared files come in two shapes: nested-section JSON (windsurf's
// mcp_config.json) and nested-table TOML (codex's config.toml). Both are
// read and written whole-file.
package global
