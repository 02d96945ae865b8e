// Package editors turns a resolved configuration document into the native
// file layout of each supported editor.
//
// Every editor is an Adapter: a name, a config directory, and one strategy
// per capability axis (rules, mcp, skills, prompts, hooks). Each axis is a
// small interface with a fixed set of concrete variants, one per editor
// family; the registry composes them into the closed set of supported
// adapters.
//
// The pipeline per editor is GenerateConfig, which resolves all content
// into an EditorConfig, followed by PlanChanges, which diffs the desired
// artifacts against disk and yields a change list plus any global change
// requests. Markdown artifacts are always overwritten wholesale; JSON
// artifacts are merged with their on-disk content so entries written by
// other tools survive.
//
// Skills come in exactly two flavors. Native editors link their own skills
// directory to the canonical shared install under ~/.loom/skills; all
// others get the canonical install plus one synthesized pointer rule per
// skill.
package editors
