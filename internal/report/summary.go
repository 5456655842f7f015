// Package report prints a human-readable trend summary to the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mgearhart/heattrends/internal/trend"
)

var (
	sectionColor     = color.New(color.FgBlue, color.Bold)
	labelColor       = color.New(color.FgCyan)
	numberColor      = color.New(color.FgGreen)
	significantColor = color.New(color.FgRed, color.Bold)
	mutedColor       = color.New(color.FgHiBlack)
	warnColor        = color.New(color.FgYellow)
)

// significanceLevel is the conventional cutoff used only for display emphasis.
const significanceLevel = 0.05

// WriteSummary prints the fitted trends and period comparisons grouped by
// window. Unavailable series are listed with their reason rather than
// omitted, so a partial run is visible at a glance.
func WriteSummary(w io.Writer, res trend.Results) {
	byWindow := make(map[string][]trend.TrendResult)
	var windows []string
	for _, t := range res.Trends {
		if _, ok := byWindow[t.Window]; !ok {
			windows = append(windows, t.Window)
		}
		byWindow[t.Window] = append(byWindow[t.Window], t)
	}

	comparisons := make(map[string]trend.PeriodComparison)
	for _, c := range res.Comparisons {
		comparisons[c.Window+"/"+c.Series] = c
	}

	for _, window := range windows {
		sectionColor.Fprintf(w, "=== %s ===\n", window)
		for _, t := range byWindow[window] {
			if t.Status != trend.StatusOK {
				warnColor.Fprintf(w, "  %-24s unavailable: %s\n", t.Series, t.Note)
				continue
			}

			labelColor.Fprintf(w, "  %-24s", t.Series)
			numberColor.Fprintf(w, " %+.3f/yr", t.Slope)
			if t.PValue < significanceLevel {
				significantColor.Fprintf(w, "  p=%.4f", t.PValue)
			} else {
				mutedColor.Fprintf(w, "  p=%.4f", t.PValue)
			}
			fmt.Fprintf(w, "  n=%d\n", t.N)

			if c, ok := comparisons[t.Window+"/"+t.Series]; ok {
				mutedColor.Fprintf(w, "    %d-%d avg %.1f  ->  %d-%d avg %.1f\n",
					c.EarlyStartYear, c.EarlyEndYear, c.EarlyMean,
					c.RecentStartYear, c.RecentEndYear, c.RecentMean)
			}
		}
		fmt.Fprintln(w)
	}
}

// WriteLowConfidenceYears lists flagged years so a reader knows which points
// rest on incomplete coverage.
func WriteLowConfidenceYears(w io.Writer, yearly []trend.YearlyValue) {
	seen := make(map[string]bool)
	for _, v := range yearly {
		if !v.LowConfidence {
			continue
		}
		key := fmt.Sprintf("%s/%d", v.Window, v.Year)
		if seen[key] {
			continue
		}
		seen[key] = true
		warnColor.Fprintf(w, "low confidence: %s %d (%d valid day(s))\n", v.Window, v.Year, v.NValid)
	}
}
