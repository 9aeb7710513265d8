// Package ui renders depfilter's human-facing output on stderr. Filter
// strings meant for piping go to stdout from the commands themselves.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/depfilter/internal/pipeline"
)

var (
	styleName    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Italic(true).Bold(true)
	styleCount   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleFilter  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true).Bold(true)
	stylePath    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true)
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleItalic  = lipgloss.NewStyle().Italic(true)
)

type Printer struct {
	w io.Writer
}

func New() *Printer {
	return &Printer{w: os.Stderr}
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) PipelineSummary(name string, projects int, filter string) {
	fmt.Fprintf(p.w, "Pipeline %s, includes %s projects.\n",
		styleName.Render(name), styleCount.Render(fmt.Sprint(projects)))
	fmt.Fprintf(p.w, "Path filter: %s\n\n", styleFilter.Render(filter))
}

// PipelineDetail lists every direct project with its numbered references.
func (p *Printer) PipelineDetail(pl *pipeline.Pipeline, filter string) {
	fmt.Fprintf(p.w, "Pipeline %s, %s projects:\n",
		styleName.Render(pl.Name), styleCount.Render(fmt.Sprint(len(pl.Projects))))
	for _, proj := range pl.Projects {
		fmt.Fprintf(p.w, "    Project %s, %s deps:\n",
			stylePath.Render(proj.Path), styleCount.Render(fmt.Sprint(len(proj.References))))
		for i, ref := range proj.References {
			fmt.Fprintf(p.w, "        %s: %s\n", styleBold.Render(fmt.Sprint(i+1)), styleDim.Render(ref.IncludePath))
		}
	}
	fmt.Fprintf(p.w, "    Path filter: %s\n", stylePath.Render(filter))
}

func (p *Printer) CreatingFilterFiles() {
	fmt.Fprintln(p.w, styleHeader.Render("Creating path filter files..."))
}

func (p *Printer) FilterFileWritten(path string) {
	fmt.Fprintf(p.w, "  %s %s\n", styleSuccess.Render("✓"), styleDim.Render(path))
}

func (p *Printer) Done() {
	fmt.Fprintf(p.w, "%s %s\n", styleSuccess.Render("Done!"),
		styleItalic.Render("Now it's time to paste the path filters into Azure DevOps."))
}

func (p *Printer) UpToDate(path string) {
	fmt.Fprintf(p.w, "%s %s\n", styleSuccess.Render("✓ up to date"), path)
}

// Stale reports a side-car file whose contents differ from the computed filter.
func (p *Printer) Stale(path, reason string) {
	fmt.Fprintf(p.w, "%s %s %s\n", styleWarn.Render("✗ stale"), path, styleDim.Render("("+reason+")"))
}

func (p *Printer) CheckSummary(total, stale int) {
	if stale == 0 {
		fmt.Fprintf(p.w, "%s — %d filter file(s) checked\n", styleSuccess.Render("✓ all path filters current"), total)
		return
	}
	fmt.Fprintf(p.w, "%s — run `depfilter generate` to refresh\n",
		styleError.Render(fmt.Sprintf("✗ %d of %d path filter(s) stale", stale, total)))
}

func (p *Printer) Match(path string, matched bool) {
	if matched {
		fmt.Fprintf(p.w, "  %s %s\n", styleSuccess.Render("● triggers"), path)
		return
	}
	fmt.Fprintf(p.w, "  %s %s\n", styleDim.Render("○ ignored "), path)
}

func (p *Printer) Watching(dirs int) {
	fmt.Fprintf(p.w, "%s %s\n", styleHeader.Render("watching"),
		styleDim.Render(fmt.Sprintf("%d director(ies) for descriptor changes (ctrl-c to stop)", dirs)))
}

func (p *Printer) Changed(path string) {
	fmt.Fprintf(p.w, "%s %s\n", styleWarn.Render("↻ changed"), path)
}

func (p *Printer) ReportWritten(path string, pipelines int) {
	fmt.Fprintf(p.w, "%s %s %s\n", styleSuccess.Render("✓ report"), path,
		styleDim.Render(fmt.Sprintf("(%d pipeline(s))", pipelines)))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", styleError.Render("error: "), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, styleDim.Render(msg))
}
