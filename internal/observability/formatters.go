// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ghost-job-detector/internal/db"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutcome outputs a human-readable summary of one analysis result.
func (p *Printer) PrintOutcome(outcome *types.FusionOutcome) {
	if outcome == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ghost probability: %.0f%%\n", outcome.GhostProbability*100))
	sb.WriteString(fmt.Sprintf("Confidence:        %.0f%%\n", outcome.Confidence*100))
	sb.WriteString(fmt.Sprintf("Risk level:        %s\n", strings.ToUpper(string(outcome.RiskLevel))))

	if len(outcome.RiskFactors) > 0 {
		sb.WriteString("\nRisk factors:\n")
		count := min(len(outcome.RiskFactors), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", outcome.RiskFactors[i]))
		}
		if len(outcome.RiskFactors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(outcome.RiskFactors)-maxItemsToShow))
		}
	}

	if len(outcome.KeyFactors) > 0 {
		sb.WriteString("\nPositive factors:\n")
		count := min(len(outcome.KeyFactors), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ✓ %s\n", outcome.KeyFactors[i]))
		}
	}

	if outcome.Degraded() {
		sb.WriteString(fmt.Sprintf("\nDegraded: %d signal(s) unavailable: %s\n",
			len(outcome.UnavailableSignals), strings.Join(outcome.UnavailableSignals, ", ")))
	}

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAdjustments outputs the post-fusion adjustment audit trail.
func (p *Printer) PrintAdjustments(records []types.AdjustmentRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	for _, rec := range records {
		if rec.Skipped {
			sb.WriteString(fmt.Sprintf("%d. %s: skipped\n", rec.Order+1, rec.Stage))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %+.3f\n", rec.Order+1, rec.Stage, rec.Delta))
		sb.WriteString(fmt.Sprintf("   %s\n", rec.Rationale))
	}

	p.printBox("ADJUSTMENT PIPELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs recent stored analyses.
func (p *Printer) PrintHistory(analyses []db.Analysis) {
	if len(analyses) == 0 {
		p.printBox("ANALYSIS HISTORY", "No stored analyses.")
		return
	}

	var sb strings.Builder
	for i, a := range analyses {
		sb.WriteString(fmt.Sprintf("%s: %s\n", a.Company, a.Title))
		sb.WriteString(fmt.Sprintf("  %.0f%% ghost (%s) on %s\n",
			a.GhostProbability*100, a.RiskLevel, a.CreatedAt.Format("2006-01-02")))
		if i < len(analyses)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("ANALYSIS HISTORY (%d)", len(analyses)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs aggregate statistics.
func (p *Printer) PrintStats(stats *db.Stats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total analyses:  %d\n", stats.TotalAnalyses))
	sb.WriteString(fmt.Sprintf("High risk:       %d\n", stats.HighRisk))
	sb.WriteString(fmt.Sprintf("Medium risk:     %d\n", stats.MediumRisk))
	sb.WriteString(fmt.Sprintf("Low risk:        %d\n", stats.LowRisk))
	sb.WriteString(fmt.Sprintf("Avg probability: %.0f%%\n", stats.AverageProbability*100))

	if len(stats.TopGhostCompanies) > 0 {
		sb.WriteString("\nTop ghost-rate companies:\n")
		count := min(len(stats.TopGhostCompanies), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := stats.TopGhostCompanies[i]
			sb.WriteString(fmt.Sprintf("  #%d %s (%.0f%%, %d analyses)\n",
				i+1, c.Company, c.AverageGhostRate*100, c.AnalysisCount))
		}
	}

	p.printBox("DETECTION STATS", strings.TrimSuffix(sb.String(), "\n"))
}
