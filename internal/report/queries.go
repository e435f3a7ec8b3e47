package report

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"luxhousing/internal/logging"
	"luxhousing/internal/storage"
)

// Query is one post-load aggregate.
type Query struct {
	Name  string
	Title string
	SQL   string
}

// QueryRowCount names the total row count query.
const QueryRowCount = "row_count"

// TopDevelopers is the number of developers listed by the average-price
// query.
const TopDevelopers = 10

// Queries returns the three post-load queries against table for the given
// storage dialect. SQL Server has no LIMIT and uses TOP instead.
func Queries(dialect, table string) []Query {
	avg := fmt.Sprintf(
		"SELECT developer_name, AVG(ticket_price_cr) AS avg_ticket_price FROM %s GROUP BY developer_name ORDER BY avg_ticket_price DESC LIMIT %d",
		table, TopDevelopers)
	if dialect == "mssql" {
		avg = fmt.Sprintf(
			"SELECT TOP %d developer_name, AVG(ticket_price_cr) AS avg_ticket_price FROM %s GROUP BY developer_name ORDER BY avg_ticket_price DESC",
			TopDevelopers, table)
	}
	return []Query{
		{
			Name:  QueryRowCount,
			Title: "Total Rows:",
			SQL:   fmt.Sprintf("SELECT COUNT(*) AS total_rows FROM %s", table),
		},
		{
			Name:  "booking_flag",
			Title: "Booking Flag Distribution:",
			SQL:   fmt.Sprintf("SELECT booking_flag, COUNT(*) AS bookings FROM %s GROUP BY booking_flag ORDER BY booking_flag", table),
		},
		{
			Name:  "top_developers",
			Title: fmt.Sprintf("Top %d Builders by Avg Ticket Price:", TopDevelopers),
			SQL:   avg,
		},
	}
}

// Result pairs a query with its rows.
type Result struct {
	Query Query
	Rows  *storage.ResultSet
}

// RunQueries executes Queries(repo.Dialect(), table) in order, printing each
// result to w. The first failing query aborts the run.
func RunQueries(ctx context.Context, repo storage.Repository, table string, w io.Writer, log *zap.Logger) ([]Result, error) {
	log = logging.OrNop(log).Named("report")

	qs := Queries(repo.Dialect(), table)
	out := make([]Result, 0, len(qs))
	for _, q := range qs {
		rs, err := repo.Query(ctx, q.SQL)
		if err != nil {
			return out, fmt.Errorf("query %s: %w", q.Name, err)
		}
		log.Debug("query done", zap.String("query", q.Name), zap.Int("rows", len(rs.Rows)))
		if _, err := fmt.Fprintln(w); err != nil {
			return out, err
		}
		if err := WriteResult(w, q.Title, rs); err != nil {
			return out, err
		}
		out = append(out, Result{Query: q, Rows: rs})
	}
	return out, nil
}
