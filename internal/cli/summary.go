package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/centavo-dev/centavo/internal/engine"
	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/parser"
)

// RenderImportSummary writes the per-file results and the closing totals
// box for an import or check run.
func RenderImportSummary(w io.Writer, summary *engine.RunSummary) {
	for _, file := range summary.Files {
		name := filepath.Base(file.Path)
		switch file.Status {
		case engine.StatusImported:
			line := fmt.Sprintf("%s (%s): %d new, %d duplicates, %d categorized",
				name, file.Source, file.New, file.Duplicates, file.Categorized)
			writeLine(w, FormatSuccess(line))
		case engine.StatusSkipped:
			writeLine(w, SubtleStyle.Render(fmt.Sprintf("%s %s: %s", SuccessIcon, name, file.Reason)))
		case engine.StatusFailed:
			writeLine(w, FormatError(fmt.Sprintf("%s: %v", name, file.Err)))
		}
	}

	title := "Import Complete!"
	verb := "Imported"
	if summary.DryRun {
		title = "Dry Run Complete!"
		verb = "Would import"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Statistics:\n", ChartIcon)
	fmt.Fprintf(&b, "  • Files: %d", len(summary.Files))
	if summary.Skipped > 0 {
		fmt.Fprintf(&b, " (%d already imported)", summary.Skipped)
	}
	if summary.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", summary.Failed)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  • %s: %d transactions\n", verb, summary.Imported)
	fmt.Fprintf(&b, "  • Duplicates skipped: %d\n", summary.Duplicates)
	if summary.Imported > 0 {
		pct := float64(summary.Categorized) / float64(summary.Imported) * 100
		fmt.Fprintf(&b, "  • Categorized: %d (%.1f%%)\n", summary.Categorized, pct)
		fmt.Fprintf(&b, "  • Uncategorized: %d\n", summary.Uncategorized)
	}

	writeLine(w, RenderBox(MoneyIcon+" "+title, b.String()))

	if summary.HasFailures() {
		writeLine(w, FormatWarning("Some files failed; nothing from those files was written."))
	}
}

// RenderSourcesTable writes the registered sources and their conventions.
func RenderSourcesTable(w io.Writer, registry *parser.Registry) {
	header := fmt.Sprintf("%-10s %-12s %-18s %-8s %s",
		"SOURCE", "DATE", "SIGN", "CURRENCY", "ACCOUNT")
	writeLine(w, TableHeaderStyle.Render(header))

	for _, id := range registry.Sources() {
		p, err := registry.Get(id)
		if err != nil {
			continue
		}
		profile := p.Profile()
		writeLine(w, fmt.Sprintf("%-10s %-12s %-18s %-8s %s",
			id,
			profile.DateLayout,
			string(profile.Sign),
			profile.Currency,
			profile.DefaultAccount))
	}
}

// RenderImportsTable writes the ledger's import history.
func RenderImportsTable(w io.Writer, records []ledger.ImportRecord) {
	if len(records) == 0 {
		writeLine(w, FormatInfo("No imports recorded yet."))
		return
	}

	header := fmt.Sprintf("%-20s %-10s %-30s %6s %6s",
		"IMPORTED AT", "SOURCE", "FILE", "ROWS", "NEW")
	writeLine(w, TableHeaderStyle.Render(header))

	for _, r := range records {
		writeLine(w, fmt.Sprintf("%-20s %-10s %-30s %6d %6d",
			r.ImportedAt.Format("2006-01-02 15:04"),
			r.Source,
			r.FileName,
			r.Transactions,
			r.NewTransactions))
	}
}

// RenderRulesTable writes the derived category rules and flags conflicts.
func RenderRulesTable(w io.Writer, rules []model.CategoryRule, conflicts []model.RuleConflict) {
	if len(rules) == 0 {
		writeLine(w, FormatInfo("No categorized history; no rules to show."))
		return
	}

	conflicted := make(map[string]model.RuleConflict, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.Key] = c
	}

	header := fmt.Sprintf("%-40s %-20s %6s %-12s", "KEY", "CATEGORY", "COUNT", "LAST SEEN")
	writeLine(w, TableHeaderStyle.Render(header))

	for _, rule := range rules {
		line := fmt.Sprintf("%-40s %-20s %6d %-12s",
			rule.Key, rule.Category, rule.Count, rule.LastSeen.Format("2006-01-02"))
		if c, ok := conflicted[rule.Key]; ok {
			line += " " + WarningStyle.Render(fmt.Sprintf("%s also seen as %s", WarningIcon, strings.Join(c.Others, ", ")))
		}
		writeLine(w, line)
	}

	if len(conflicts) > 0 {
		writeLine(w, "")
		writeLine(w, FormatWarning(fmt.Sprintf("%d conflicting keys; the majority category won each.", len(conflicts))))
	}
}

func writeLine(w io.Writer, s string) {
	if _, err := fmt.Fprintln(w, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
