// Package report renders the human-readable run output: value-count
// profiles, numeric ranges and the results of the post-load queries.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"luxhousing/internal/profile"
	"luxhousing/internal/storage"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// WriteProfile prints one block per column: the distinct count followed by
// the most frequent values.
func WriteProfile(w io.Writer, title string, sums []profile.ColumnSummary) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s\n", title)
	for _, s := range sums {
		fmt.Fprintf(tw, "\nColumn: %s\t(%s distinct)\n", s.Column, humanize.Comma(int64(s.Distinct)))
		for _, vc := range s.Top {
			fmt.Fprintf(tw, "  %s\t%s\n", displayText(vc.Value), humanize.Comma(int64(vc.Count)))
		}
	}
	return tw.Flush()
}

// WriteRanges prints the min/max of each numeric column with its quartiles
// and outlier count.
func WriteRanges(w io.Writer, ranges []profile.Range) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "Outlier Ranges:")
	fmt.Fprintln(tw, "column\tmin\tmax\tq1\tq3\toutliers\tvalues")
	for _, r := range ranges {
		if r.Count == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t0\t0\n", r.Column)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Column,
			formatFloat(r.Min), formatFloat(r.Max),
			formatFloat(r.Q1), formatFloat(r.Q3),
			r.Outliers, humanize.Comma(int64(r.Count)))
	}
	return tw.Flush()
}

// WriteResult prints a query result as an aligned text table.
func WriteResult(w io.Writer, title string, rs *storage.ResultSet) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s\n", title)
	if rs == nil {
		fmt.Fprintln(tw, "(no result)")
		return tw.Flush()
	}
	fmt.Fprintln(tw, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(tw, "(%s rows)\n", humanize.Comma(int64(len(rs.Rows))))
	return tw.Flush()
}

// FormatCell renders one result value.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return formatFloat(x)
	case time.Time:
		return x.Format(time.DateOnly)
	case string:
		return displayText(x)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func formatFloat(f float64) string {
	return humanize.CommafWithDigits(f, 4)
}

// displayText makes blank and whitespace-only values visible.
func displayText(s string) string {
	if strings.TrimSpace(s) == "" {
		return fmt.Sprintf("%q", s)
	}
	return s
}
