package editors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loom/internal/document"
	"loom/internal/loader"
	"loom/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// resolveConcurrency bounds parallel content resolution. Skill sources are
// independent, so reading them concurrently is safe; the bound keeps file
// descriptor and network usage small.
const resolveConcurrency = 3

// Adapter is the per-editor composition of the five capability strategies.
// Adapters are immutable once constructed and hold no cross-invocation
// state.
type Adapter struct {
	Name      string
	ConfigDir string

	Rules   RulesStrategy
	MCP     MCPStrategy
	Skills  SkillsStrategy
	Prompts PromptsStrategy
	Hooks   HooksStrategy
}

// GenerateConfig resolves the document into this editor's intermediate
// representation: skill content loaded and installation planned, declared
// and skill-derived rules merged, prompts resolved, and disabled MCP
// entries dropped.
func (a *Adapter) GenerateConfig(ctx context.Context, doc document.Document, root string, ldr loader.ContentLoader, opts Options) (*EditorConfig, error) {
	home, err := resolveHome(opts)
	if err != nil {
		return nil, err
	}

	cfg := &EditorConfig{MCP: map[string]ServerConfig{}}

	skills, err := a.resolveSkills(ctx, doc[document.SectionSkills], ldr, home)
	if err != nil {
		return nil, err
	}
	cfg.SkillChanges, err = a.Skills.InstallSkills(skills, root, SkillsInstallOptions{Home: home})
	if err != nil {
		return nil, err
	}

	cfg.Rules, err = a.resolveRules(ctx, doc[document.SectionRules], ldr)
	if err != nil {
		return nil, err
	}
	cfg.Rules = append(cfg.Rules, a.Skills.SkillRules(skills)...)
	sort.Slice(cfg.Rules, func(i, j int) bool { return cfg.Rules[i].Name < cfg.Rules[j].Name })

	cfg.Prompts, err = a.resolvePrompts(ctx, doc[document.SectionPrompts], ldr)
	if err != nil {
		return nil, err
	}

	for name, item := range doc[document.SectionMCP] {
		switch item.Kind() {
		case document.ItemDeleted:
			// Disabled entries never reach the editor.
		case document.ItemShorthand:
			cfg.MCP[name] = ServerConfig{"command": item.Shorthand()}
		case document.ItemObject:
			cfg.MCP[name] = ServerConfig(item.Object())
		}
	}

	cfg.Hooks = resolveHooks(doc[document.SectionHooks])

	logging.Debug("Generate", "%s: %d rules, %d prompts, %d servers, %d skill changes",
		a.Name, len(cfg.Rules), len(cfg.Prompts), len(cfg.MCP), len(cfg.SkillChanges))
	return cfg, nil
}

func (a *Adapter) resolveSkills(ctx context.Context, items document.SectionMap, ldr loader.ContentLoader, home string) ([]ResolvedSkill, error) {
	names := activeNames(items)
	resolved := make([]ResolvedSkill, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			item := items[name]
			body, sourcePath, err := resolveText(ctx, item, ldr)
			if err != nil {
				return fmt.Errorf("skill %q: %w", name, err)
			}
			resolved[i] = ResolvedSkill{
				Name:        name,
				Description: stringField(item, "description"),
				Content:     body,
				SourcePath:  sourcePath,
				InstallPath: filepath.Join(CanonicalSkillsDir(home), name),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (a *Adapter) resolveRules(ctx context.Context, items document.SectionMap, ldr loader.ContentLoader) ([]Rule, error) {
	var rules []Rule
	for _, name := range activeNames(items) {
		item := items[name]
		body, _, err := resolveText(ctx, item, ldr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rules = append(rules, Rule{
			Name:        name,
			Content:     body,
			Description: stringField(item, "description"),
			Globs:       stringSliceField(item, "globs"),
			AlwaysApply: boolField(item, "alwaysApply"),
		})
	}
	return rules, nil
}

func (a *Adapter) resolvePrompts(ctx context.Context, items document.SectionMap, ldr loader.ContentLoader) ([]Prompt, error) {
	var prompts []Prompt
	for _, name := range activeNames(items) {
		item := items[name]
		body, _, err := resolveText(ctx, item, ldr)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", name, err)
		}
		prompts = append(prompts, Prompt{
			Name:        name,
			Content:     body,
			Description: stringField(item, "description"),
		})
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Name < prompts[j].Name })
	return prompts, nil
}

func resolveHooks(items document.SectionMap) HooksConfig {
	if len(items) == 0 {
		return nil
	}
	hooks := HooksConfig{}
	for _, name := range activeNames(items) {
		item := items[name]
		switch item.Kind() {
		case document.ItemShorthand:
			hooks[name] = append(hooks[name], HookAction{Command: item.Shorthand()})
		case document.ItemObject:
			event := stringField(item, "event")
			if event == "" {
				event = name
			}
			hooks[event] = append(hooks[event], HookAction{
				Command: stringField(item, "command"),
				Matcher: stringField(item, "matcher"),
				Timeout: intField(item, "timeout"),
			})
		}
	}
	return hooks
}

// resolveText produces the content of a rule/prompt/skill item: inline
// content is used directly, any path-like reference goes through the loader.
func resolveText(ctx context.Context, item document.Item, ldr loader.ContentLoader) (string, string, error) {
	switch item.Kind() {
	case document.ItemShorthand:
		c, err := ldr.Load(ctx, item.Shorthand())
		if err != nil {
			return "", "", err
		}
		return c.Body, c.SourcePath, nil
	case document.ItemObject:
		obj := item.Object()
		if content, ok := obj["content"].(string); ok {
			return content, "", nil
		}
		ref := stringField(item, "path")
		if ref == "" {
			ref = stringField(item, "source")
		}
		if ref == "" {
			return "", "", fmt.Errorf("item has neither inline content nor a path/source reference")
		}
		c, err := ldr.Load(ctx, ref)
		if err != nil {
			return "", "", err
		}
		return c.Body, c.SourcePath, nil
	default:
		return "", "", fmt.Errorf("cannot resolve a deleted item")
	}
}

// activeNames returns the non-deleted item names in sorted order.
func activeNames(items document.SectionMap) []string {
	names := make([]string, 0, len(items))
	for name, item := range items {
		if !item.IsDeleted() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func stringField(item document.Item, key string) string {
	if item.Kind() != document.ItemObject {
		return ""
	}
	s, _ := item.Object()[key].(string)
	return s
}

func boolField(item document.Item, key string) bool {
	if item.Kind() != document.ItemObject {
		return false
	}
	b, _ := item.Object()[key].(bool)
	return b
}

func stringSliceField(item document.Item, key string) []string {
	if item.Kind() != document.ItemObject {
		return nil
	}
	raw, ok := item.Object()[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intField(item document.Item, key string) int {
	if item.Kind() != document.ItemObject {
		return 0
	}
	// JSON numbers decode as float64.
	if f, ok := item.Object()[key].(float64); ok {
		return int(f)
	}
	return 0
}

func resolveHome(opts Options) (string, error) {
	if opts.Home != "" {
		return opts.Home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return home, nil
}

func warningPrefix(editor, message string) string {
	if strings.HasPrefix(message, editor+":") {
		return message
	}
	return editor + ": " + message
}
