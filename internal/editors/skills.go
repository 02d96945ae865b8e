package editors

import (
	"fmt"
	"path/filepath"
	"sort"

	"loom/internal/plan"
)

// CanonicalSkillsDir is the shared install tree every editor's skills
// resolve to, regardless of whether the editor links or points at it.
func CanonicalSkillsDir(home string) string {
	return filepath.Join(home, ".loom", "skills")
}

// installCanonical plans the writes that materialize each skill under the
// canonical shared tree. Installing the same skill for several editors is
// naturally idempotent: the second plan classifies as unchanged.
func installCanonical(skills []ResolvedSkill) ([]plan.FileChange, error) {
	var changes []plan.FileChange
	for _, skill := range skills {
		change, err := plan.Classify(filepath.Join(skill.InstallPath, "SKILL.md"), ensureTrailingNewline(skill.Content), "skill")
		if err != nil {
			return nil, fmt.Errorf("failed to plan skill %q: %w", skill.Name, err)
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// nativeSkills serves editors with a native shared-skill convention: the
// canonical copy is installed once and the editor's own skills directory
// links to it. No pointer rules are produced.
type nativeSkills struct {
	dir string
}

func (s nativeSkills) Native() bool      { return true }
func (s nativeSkills) SkillsDir() string { return s.dir }

func (s nativeSkills) InstallSkills(skills []ResolvedSkill, root string, opts SkillsInstallOptions) ([]plan.FileChange, error) {
	changes, err := installCanonical(skills)
	if err != nil {
		return nil, err
	}
	for _, skill := range skills {
		linkPath := filepath.Join(root, s.dir, skill.Name)
		changes = append(changes, plan.ClassifySymlink(linkPath, skill.InstallPath, "skill-link"))
	}
	return changes, nil
}

func (s nativeSkills) SkillRules([]ResolvedSkill) []Rule { return nil }

// pointerSkills serves editors without a skill mechanism: the canonical copy
// is installed and one rule per skill tells the assistant where it lives.
type pointerSkills struct{}

func (pointerSkills) Native() bool      { return false }
func (pointerSkills) SkillsDir() string { return "" }

func (pointerSkills) InstallSkills(skills []ResolvedSkill, root string, opts SkillsInstallOptions) ([]plan.FileChange, error) {
	return installCanonical(skills)
}

func (pointerSkills) SkillRules(skills []ResolvedSkill) []Rule {
	rules := make([]Rule, 0, len(skills))
	for _, skill := range skills {
		rules = append(rules, Rule{
			Name:        "skill-" + skill.Name,
			Description: skill.Description,
			Content:     pointerRuleContent(skill),
		})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules
}

func pointerRuleContent(skill ResolvedSkill) string {
	return fmt.Sprintf(
		"The skill %q is installed at %s.\nWhen a task matches this skill, read %s and follow its instructions.\n",
		skill.Name, skill.InstallPath, filepath.Join(skill.InstallPath, "SKILL.md"))
}
