package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"loom/internal/detect"
	"loom/internal/global"
	"loom/internal/plan"
)

func TestPlanTable_GroupsAndOrders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.PlanTable(map[string][]plan.FileChange{
		"cursor": {
			{Path: "/p/.cursor/rules/a.mdc", Action: plan.ActionUnchanged, Category: "rule"},
			{Path: "/p/.cursor/rules/b.mdc", Action: plan.ActionCreate, Category: "rule"},
		},
		"claude": {
			{Path: "/p/.claude/skills/audit", Action: plan.ActionCreate, Category: "skill-link", SymlinkTarget: "/home/u/.loom/skills/audit"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "EDITOR")
	assert.Contains(t, out, "-> /home/u/.loom/skills/audit")

	claudePos := strings.Index(out, "claude")
	cursorPos := strings.Index(out, "cursor")
	assert.Less(t, claudePos, cursorPos, "editors are sorted")

	createPos := strings.Index(out, "b.mdc")
	unchangedPos := strings.Index(out, "a.mdc")
	assert.Less(t, createPos, unchangedPos, "unchanged rows go last")
}

func TestGlobalTable_SkipReason(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.GlobalTable([]global.ChangeRequest{
		{Editor: "codex", Type: global.ResourceMCP, Name: "github", Action: global.ActionSkip, SkipReason: "conflict", GlobalPath: "/h/.codex/config.toml"},
	})

	assert.Contains(t, buf.String(), "skip (conflict)")
}

func TestGlobalTable_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).GlobalTable(nil)
	assert.Empty(t, buf.String())
}

func TestEditorsTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).EditorsTable([]detect.Result{
		{Editor: "claude", Installed: true, InProject: false},
		{Editor: "codex", Installed: false, InProject: true},
	})

	out := buf.String()
	assert.Contains(t, out, "claude")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestWarningsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Warnings([]string{"copilot: mcp servers are not supported, skipping"})
	p.Summary(1, 2, 0, 3)

	out := buf.String()
	assert.Contains(t, out, "warning: copilot")
	assert.Contains(t, out, "1 created, 2 updated, 0 deleted, 3 unchanged")
}

func TestCountActions(t *testing.T) {
	created, updated, deleted, unchanged := CountActions([]plan.FileChange{
		{Action: plan.ActionCreate},
		{Action: plan.ActionUpdate},
		{Action: plan.ActionUpdate},
		{Action: plan.ActionUnchanged},
	})
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 1, unchanged)
}
