package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"loom/internal/detect"
	"loom/internal/global"
	"loom/internal/plan"
)

// Printer renders command output. Color is applied per cell through
// go-pretty, so piping through a writer that strips ANSI still produces
// aligned tables.
type Printer struct {
	out   io.Writer
	color bool
}

func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (p *Printer) paint(c text.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

func actionColor(action plan.Action) text.Color {
	switch action {
	case plan.ActionCreate:
		return text.FgGreen
	case plan.ActionUpdate:
		return text.FgYellow
	case plan.ActionDelete:
		return text.FgRed
	default:
		return text.FgHiBlack
	}
}

// PlanTable renders the per-editor change list grouped by editor name.
// Unchanged entries are listed last within each editor so the actionable
// rows come first.
func (p *Printer) PlanTable(changes map[string][]plan.FileChange) {
	t := p.createTable()
	t.AppendHeader(table.Row{
		p.paint(text.FgHiCyan, "EDITOR"),
		p.paint(text.FgHiCyan, "ACTION"),
		p.paint(text.FgHiCyan, "KIND"),
		p.paint(text.FgHiCyan, "PATH"),
	})

	editors := make([]string, 0, len(changes))
	for name := range changes {
		editors = append(editors, name)
	}
	sort.Strings(editors)

	for _, editor := range editors {
		for _, change := range orderChanges(changes[editor]) {
			path := change.Path
			if change.SymlinkTarget != "" {
				path = fmt.Sprintf("%s -> %s", change.Path, change.SymlinkTarget)
			}
			t.AppendRow(table.Row{
				editor,
				p.paint(actionColor(change.Action), string(change.Action)),
				change.Category,
				path,
			})
		}
	}
	t.Render()
}

// orderChanges keeps the incoming order but moves unchanged rows to the
// end.
func orderChanges(changes []plan.FileChange) []plan.FileChange {
	out := make([]plan.FileChange, 0, len(changes))
	var quiet []plan.FileChange
	for _, c := range changes {
		if c.Action == plan.ActionUnchanged {
			quiet = append(quiet, c)
			continue
		}
		out = append(out, c)
	}
	return append(out, quiet...)
}

// GlobalTable renders the shared-resource change requests.
func (p *Printer) GlobalTable(requests []global.ChangeRequest) {
	if len(requests) == 0 {
		return
	}
	t := p.createTable()
	t.AppendHeader(table.Row{
		p.paint(text.FgHiCyan, "EDITOR"),
		p.paint(text.FgHiCyan, "TYPE"),
		p.paint(text.FgHiCyan, "NAME"),
		p.paint(text.FgHiCyan, "ACTION"),
		p.paint(text.FgHiCyan, "PATH"),
	})
	for _, req := range requests {
		action := string(req.Action)
		color := text.FgGreen
		if req.Action == global.ActionSkip {
			action = fmt.Sprintf("skip (%s)", req.SkipReason)
			color = text.FgHiBlack
			if req.SkipReason == "conflict" {
				color = text.FgYellow
			}
		}
		t.AppendRow(table.Row{
			req.Editor,
			string(req.Type),
			req.Name,
			p.paint(color, action),
			req.GlobalPath,
		})
	}
	t.Render()
}

// EditorsTable renders detection results.
func (p *Printer) EditorsTable(results []detect.Result) {
	t := p.createTable()
	t.AppendHeader(table.Row{
		p.paint(text.FgHiCyan, "EDITOR"),
		p.paint(text.FgHiCyan, "INSTALLED"),
		p.paint(text.FgHiCyan, "IN PROJECT"),
	})
	for _, r := range results {
		t.AppendRow(table.Row{r.Editor, yesNo(p, r.Installed), yesNo(p, r.InProject)})
	}
	t.Render()
}

func yesNo(p *Printer, v bool) string {
	if v {
		return p.paint(text.FgGreen, "yes")
	}
	return p.paint(text.FgHiBlack, "no")
}

// Warnings prints collected warnings, one per line.
func (p *Printer) Warnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(p.out, "%s %s\n", p.paint(text.FgYellow, "warning:"), w)
	}
}

// Summary prints the closing count line after an apply or plan.
func (p *Printer) Summary(created, updated, deleted, unchanged int) {
	fmt.Fprintf(p.out, "%s %d created, %d updated, %d deleted, %d unchanged\n",
		p.paint(text.FgHiBlue, "done:"), created, updated, deleted, unchanged)
}

// CountActions tallies a change list for Summary.
func CountActions(changes []plan.FileChange) (created, updated, deleted, unchanged int) {
	for _, c := range changes {
		switch c.Action {
		case plan.ActionCreate:
			created++
		case plan.ActionUpdate:
			updated++
		case plan.ActionDelete:
			deleted++
		case plan.ActionUnchanged:
			unchanged++
		}
	}
	return
}
