package editors

import (
	"fmt"
	"sort"
	"strings"
)

// markdownRules writes one plain markdown file per rule.
type markdownRules struct {
	dir string
}

func (s markdownRules) RulesDir() string      { return s.dir }
func (s markdownRules) FileExtension() string { return ".md" }

func (s markdownRules) FormatRule(r Rule) string {
	return ensureTrailingNewline(r.Content)
}

// mdcRules writes cursor-style .mdc files with a YAML frontmatter block
// carrying description, globs, and alwaysApply.
type mdcRules struct {
	dir string
}

func (s mdcRules) RulesDir() string      { return s.dir }
func (s mdcRules) FileExtension() string { return ".mdc" }

func (s mdcRules) FormatRule(r Rule) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "description: %s\n", r.Description)
	if len(r.Globs) > 0 {
		fmt.Fprintf(&b, "globs: %s\n", strings.Join(r.Globs, ","))
	}
	fmt.Fprintf(&b, "alwaysApply: %t\n", r.AlwaysApply)
	b.WriteString("---\n\n")
	b.WriteString(ensureTrailingNewline(r.Content))
	return b.String()
}

// combinedRules renders the entire rule set into one file at the project
// root, one titled section per rule, in name order.
type combinedRules struct {
	fileName string
	header   string
}

func (s combinedRules) RulesDir() string         { return "" }
func (s combinedRules) FileExtension() string    { return ".md" }
func (s combinedRules) CombinedFileName() string { return s.fileName }

func (s combinedRules) FormatRule(r Rule) string {
	return ensureTrailingNewline(r.Content)
}

func (s combinedRules) FormatCombined(rules []Rule) string {
	sorted := append([]Rule{}, rules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	if s.header != "" {
		b.WriteString(s.header)
		b.WriteString("\n\n")
	}
	for i, r := range sorted {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", r.Name)
		b.WriteString(ensureTrailingNewline(r.Content))
	}
	return b.String()
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
