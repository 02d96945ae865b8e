package editors

import "strings"

// dirPrompts writes one file per prompt into a project-local directory.
type dirPrompts struct {
	dir string
	ext string
}

func (s dirPrompts) Supported() bool       { return true }
func (s dirPrompts) GlobalOnly() bool      { return false }
func (s dirPrompts) PromptsDir() string    { return s.dir }
func (s dirPrompts) FileExtension() string { return s.ext }

func (s dirPrompts) FormatPrompt(p Prompt) string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString("---\n")
		b.WriteString("description: " + p.Description + "\n")
		b.WriteString("---\n\n")
	}
	b.WriteString(ensureTrailingNewline(p.Content))
	return b.String()
}

// globalPrompts writes one file per prompt into a machine-wide directory
// under home, shared by every project.
type globalPrompts struct {
	homeRelDir string
	ext        string
}

func (s globalPrompts) Supported() bool       { return true }
func (s globalPrompts) GlobalOnly() bool      { return true }
func (s globalPrompts) PromptsDir() string    { return s.homeRelDir }
func (s globalPrompts) FileExtension() string { return s.ext }

func (s globalPrompts) FormatPrompt(p Prompt) string {
	return ensureTrailingNewline(p.Content)
}

// unsupportedPrompts is for editors with no prompt mechanism.
type unsupportedPrompts struct{}

func (unsupportedPrompts) Supported() bool              { return false }
func (unsupportedPrompts) GlobalOnly() bool             { return false }
func (unsupportedPrompts) PromptsDir() string           { return "" }
func (unsupportedPrompts) FileExtension() string        { return "" }
func (unsupportedPrompts) FormatPrompt(p Prompt) string { return "" }
