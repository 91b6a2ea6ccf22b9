package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/quorumlab/tribunal/internal/eval"
	"github.com/quorumlab/tribunal/internal/ingest"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	rankStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	degradeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// termWidth returns the terminal width, defaulting when not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}

// printUploadResult reports what ingestion kept and dropped.
func printUploadResult(result *ingest.UploadResult) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(fmt.Sprintf("%s:", result.ProjectName)),
		fmt.Sprintf("%d file(s), %d bytes", result.Files, result.TotalSize))
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("  ! "+w))
	}
	for _, line := range result.DroppedSummary {
		fmt.Fprintln(os.Stderr, dimStyle.Render("  - "+line))
	}
}

// printResults renders the ranked evaluations: a compact scoreboard plus a
// full report, markdown-rendered when the terminal allows it.
func printResults(w io.Writer, evaluations []eval.ProjectEvaluation, report string, plain bool) {
	width := termWidth()

	fmt.Fprintln(w, headerStyle.Render("Final ranking"))
	for _, ev := range evaluations {
		line := fmt.Sprintf("%s %s (mean %.1f)",
			rankStyle.Render(fmt.Sprintf("#%d", ev.FinalRank)), ev.ProjectName, meanOf(ev))
		if degraded(ev) {
			line += " " + degradeStyle.Render("[degraded]")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if plain {
		fmt.Fprintln(w, report)
		return
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		fmt.Fprintln(w, report)
		return
	}
	rendered, err := renderer.Render(report)
	if err != nil {
		fmt.Fprintln(w, report)
		return
	}
	fmt.Fprint(w, rendered)
}

// buildReport renders the full markdown report for the batch.
func buildReport(evaluations []eval.ProjectEvaluation) string {
	width := 100
	var sb strings.Builder
	sb.WriteString("# Judging results\n\n")
	for _, ev := range evaluations {
		fmt.Fprintf(&sb, "## #%d %s\n\n", ev.FinalRank, ev.ProjectName)
		for _, r := range ev.Results {
			fmt.Fprintf(&sb, "### %s — %d/10\n\n", r.JudgeName, r.Score)
			sb.WriteString(wordwrap.String(r.Summary, width))
			sb.WriteString("\n\n")
			for _, like := range r.Likes {
				fmt.Fprintf(&sb, "- 👍 %s\n", like)
			}
			for _, dislike := range r.Dislikes {
				fmt.Fprintf(&sb, "- 👎 %s\n", dislike)
			}
			if r.Degraded {
				sb.WriteString("- ⚠️ fallback result: the model call or its response was unusable\n")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func meanOf(ev eval.ProjectEvaluation) float64 {
	sum, count := 0, 0
	for _, r := range ev.Results {
		sum += r.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func degraded(ev eval.ProjectEvaluation) bool {
	for _, r := range ev.Results {
		if r.Degraded {
			return true
		}
	}
	return false
}
