package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/envaudit/envaudit/pkg/reconcile"
	"github.com/envaudit/envaudit/pkg/spec"
)

// BuildInput carries everything the generator needs for one run.
type BuildInput struct {
	RunID        string
	SpecPath     string
	EnvDir       string
	GeneratedAt  time.Time
	Findings     []reconcile.Finding
	Conflicts    []reconcile.Conflict
	Warnings     []string
	FilesScanned int
}

// Summary is the counts table at the top of the report.
type Summary struct {
	TotalSpecs   int `json:"total_specs"`
	Found        int `json:"found"`
	Missing      int `json:"missing"`
	Empty        int `json:"empty"`
	WrongFile    int `json:"wrong_file"`
	Inconsistent int `json:"inconsistent"`

	Create int `json:"action_create"`
	Seed   int `json:"action_seed"`
	Manual int `json:"action_manual"`
}

// Report is the rendered outcome of one validation run.
type Report struct {
	RunID        string               `json:"run_id"`
	SpecPath     string               `json:"spec_path"`
	EnvDir       string               `json:"env_dir"`
	GeneratedAt  time.Time            `json:"generated_at"`
	FilesScanned int                  `json:"files_scanned"`
	Summary      Summary              `json:"summary"`
	Findings     []reconcile.Finding  `json:"findings"`
	Conflicts    []reconcile.Conflict `json:"conflicts,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// Build assembles the report data. Findings are re-sorted alphabetically by
// (name, owning file) so the rendering is deterministic run-to-run.
func Build(in BuildInput) *Report {
	findings := append([]reconcile.Finding(nil), in.Findings...)
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i].Spec, findings[j].Spec
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.OwningFile < b.OwningFile
	})

	r := &Report{
		RunID:        in.RunID,
		SpecPath:     in.SpecPath,
		EnvDir:       in.EnvDir,
		GeneratedAt:  in.GeneratedAt,
		FilesScanned: in.FilesScanned,
		Findings:     findings,
		Conflicts:    in.Conflicts,
		Warnings:     in.Warnings,
	}
	r.Summary.TotalSpecs = len(findings)
	r.Summary.Inconsistent = len(in.Conflicts)
	for _, f := range findings {
		switch f.Status {
		case reconcile.StatusFound:
			r.Summary.Found++
		case reconcile.StatusMissing:
			r.Summary.Missing++
		case reconcile.StatusEmpty:
			r.Summary.Empty++
		case reconcile.StatusWrongFile:
			r.Summary.WrongFile++
		}
		switch f.Spec.Action {
		case spec.ActionCreate:
			r.Summary.Create++
		case spec.ActionSeed:
			r.Summary.Seed++
		case spec.ActionManual:
			r.Summary.Manual++
		}
	}
	return r
}

// Render emits the full markdown report.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Environment Variable Validation Report\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Specification: `%s`\n", r.SpecPath)
	fmt.Fprintf(&b, "- Config directory: `%s` (%d files)\n\n", r.EnvDir, r.FilesScanned)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Documented variables | %d |\n", r.Summary.TotalSpecs)
	fmt.Fprintf(&b, "| Found | %d |\n", r.Summary.Found)
	fmt.Fprintf(&b, "| Missing | %d |\n", r.Summary.Missing)
	fmt.Fprintf(&b, "| Empty | %d |\n", r.Summary.Empty)
	fmt.Fprintf(&b, "| Wrong file | %d |\n", r.Summary.WrongFile)
	fmt.Fprintf(&b, "| Inconsistent | %d |\n", r.Summary.Inconsistent)
	fmt.Fprintf(&b, "| Action CREATE | %d |\n", r.Summary.Create)
	fmt.Fprintf(&b, "| Action SEED | %d |\n", r.Summary.Seed)
	fmt.Fprintf(&b, "| Action MANUAL | %d |\n\n", r.Summary.Manual)

	r.renderActionSection(&b, "Generate fresh values (CREATE)", spec.ActionCreate)
	r.renderActionSection(&b, "Seed from canonical source (SEED)", spec.ActionSeed)
	r.renderActionSection(&b, "Requires human input (MANUAL)", spec.ActionManual)
	r.renderWrongFileSection(&b)
	r.renderEmptySection(&b)
	r.renderInconsistentSection(&b)
	r.renderWarnings(&b)
	r.renderFullTable(&b)

	return b.String()
}

// renderActionSection lists the variables under one remediation action that
// still need attention (anything not FOUND).
func (r *Report) renderActionSection(b *strings.Builder, title string, action spec.Action) {
	fmt.Fprintf(b, "## %s\n\n", title)
	rows := 0
	for _, f := range r.Findings {
		if f.Spec.Action != action || f.Status == reconcile.StatusFound {
			continue
		}
		if rows == 0 {
			b.WriteString("| Variable | Owning File | Status | Format |\n|---|---|---|---|\n")
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n",
			f.Spec.Name, f.Spec.OwningFile, f.Status, f.Spec.Format)
		rows++
	}
	finishSection(b, rows)
}

func (r *Report) renderWrongFileSection(b *strings.Builder) {
	b.WriteString("## Defined in the wrong file (WRONG_FILE)\n\n")
	rows := 0
	for _, f := range r.Findings {
		if f.Status != reconcile.StatusWrongFile {
			continue
		}
		if rows == 0 {
			b.WriteString("| Variable | Expected In | Actually In |\n|---|---|---|\n")
		}
		fmt.Fprintf(b, "| `%s` | %s | %s |\n",
			f.Spec.Name, f.Spec.OwningFile, strings.Join(f.FoundIn, ", "))
		rows++
	}
	finishSection(b, rows)
}

func (r *Report) renderEmptySection(b *strings.Builder) {
	b.WriteString("## Defined but blank (EMPTY)\n\n")
	rows := 0
	for _, f := range r.Findings {
		if f.Status != reconcile.StatusEmpty {
			continue
		}
		if rows == 0 {
			b.WriteString("| Variable | Owning File | Action |\n|---|---|---|\n")
		}
		fmt.Fprintf(b, "| `%s` | %s | %s |\n", f.Spec.Name, f.Spec.OwningFile, f.Spec.Action)
		rows++
	}
	finishSection(b, rows)
}

func (r *Report) renderInconsistentSection(b *strings.Builder) {
	b.WriteString("## Divergent values across files (INCONSISTENT)\n\n")
	rows := 0
	for _, c := range r.Conflicts {
		if rows == 0 {
			b.WriteString("| Variable | File | Value |\n|---|---|---|\n")
		}
		for _, fv := range c.Values {
			fmt.Fprintf(b, "| `%s` | %s | `%s` |\n", c.Name, fv.File, fv.Value)
		}
		rows++
	}
	finishSection(b, rows)
}

func (r *Report) renderWarnings(b *strings.Builder) {
	b.WriteString("## Parse warnings\n\n")
	if len(r.Warnings) == 0 {
		b.WriteString("None\n\n")
		return
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	b.WriteString("\n")
}

func (r *Report) renderFullTable(b *strings.Builder) {
	b.WriteString("## All documented variables\n\n")
	if len(r.Findings) == 0 {
		b.WriteString("None\n")
		return
	}
	b.WriteString("| Variable | Status | Action | Owning File | Observed In | Format |\n|---|---|---|---|---|---|\n")
	for _, f := range r.Findings {
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s | %s |\n",
			f.Spec.Name, f.Status, f.Spec.Action, f.Spec.OwningFile,
			observedIn(f), f.Spec.Format)
	}
}

// observedIn derives the observed-location column for the final table.
func observedIn(f reconcile.Finding) string {
	switch f.Status {
	case reconcile.StatusFound, reconcile.StatusEmpty:
		return f.Spec.OwningFile
	case reconcile.StatusWrongFile:
		return strings.Join(f.FoundIn, ", ")
	case reconcile.StatusInconsistent:
		files := make([]string, 0, len(f.Conflicting))
		for _, fv := range f.Conflicting {
			files = append(files, fv.File)
		}
		return strings.Join(files, ", ")
	default:
		return "-"
	}
}

func finishSection(b *strings.Builder, rows int) {
	if rows == 0 {
		b.WriteString("None\n")
	}
	b.WriteString("\n")
}

// Write renders the report into dir with the run timestamp embedded in the
// filename, so successive runs never overwrite each other. Failure to
// create the file is fatal to the run.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create report directory: %w", err)
	}
	name := fmt.Sprintf("env-validation-report-%s.md", r.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return "", fmt.Errorf("cannot write report: %w", err)
	}
	return path, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Width(22)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// ConsoleSummary renders the summary counts for the terminal. Full detail
// lives in the report file; this is always printed.
func (r *Report) ConsoleSummary() string {
	countStyle := func(n int, style lipgloss.Style) string {
		if n == 0 {
			return okStyle.Render("0")
		}
		return style.Render(fmt.Sprintf("%d", n))
	}

	lines := []string{
		titleStyle.Render("Environment validation summary"),
		labelStyle.Render("Documented variables") + fmt.Sprintf("%d", r.Summary.TotalSpecs),
		labelStyle.Render("Found") + okStyle.Render(fmt.Sprintf("%d", r.Summary.Found)),
		labelStyle.Render("Missing") + countStyle(r.Summary.Missing, badStyle),
		labelStyle.Render("Empty") + countStyle(r.Summary.Empty, badStyle),
		labelStyle.Render("Wrong file") + countStyle(r.Summary.WrongFile, warnStyle),
		labelStyle.Render("Inconsistent") + countStyle(r.Summary.Inconsistent, badStyle),
		labelStyle.Render("Parse warnings") + countStyle(len(r.Warnings), warnStyle),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
