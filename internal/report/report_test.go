package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxhousing/internal/profile"
	"luxhousing/internal/storage"
	"luxhousing/internal/table"
)

func TestWriteProfile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteProfile(&buf, "Before cleaning", []profile.ColumnSummary{
		{Column: "Micro_Market", Distinct: 1200, Top: []profile.ValueCount{{Value: " whitefield ", Count: 3}, {Value: " ", Count: 1}}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Before cleaning")
	assert.Contains(t, out, "Column: Micro_Market")
	assert.Contains(t, out, "1,200 distinct")
	assert.Contains(t, out, " whitefield ")
	assert.Contains(t, out, `" "`, "blank values are quoted")
}

func TestWriteRanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteRanges(&buf, []profile.Range{
		{Column: "Price_per_Sqft", Min: 15000, Max: 45000000, Count: 4, Q1: 15000, Q3: 20000, Outliers: 1},
		{Column: "Unit_Size_Sqft"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Outlier Ranges:", lines[0])
	assert.Contains(t, lines[2], "45,000,000")
	assert.Contains(t, lines[2], "15,000")
	assert.True(t, strings.HasPrefix(lines[3], "Unit_Size_Sqft"))
	assert.Contains(t, lines[3], "-")
}

func TestFormatCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{int64(4), "4"},
		{4.5, "4.5"},
		{12345.678, "12,345.678"},
		{"Prestige", "Prestige"},
		{"", `""`},
		{true, "true"},
		{time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), "2023-04-15"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatCell(tc.in), "FormatCell(%#v)", tc.in)
	}
}

func TestQueries_Dialects(t *testing.T) {
	t.Parallel()

	pg := Queries("postgres", "luxury_housing")
	require.Len(t, pg, 3)
	assert.Equal(t, "SELECT COUNT(*) AS total_rows FROM luxury_housing", pg[0].SQL)
	assert.Contains(t, pg[1].SQL, "GROUP BY booking_flag")
	assert.Contains(t, pg[2].SQL, "ORDER BY avg_ticket_price DESC LIMIT 10")

	ms := Queries("mssql", "luxury_housing")
	assert.True(t, strings.HasPrefix(ms[2].SQL, "SELECT TOP 10 developer_name"))
	assert.NotContains(t, ms[2].SQL, "LIMIT")
}

// scriptedRepo answers Query from a map keyed by SQL.
type scriptedRepo struct {
	answers map[string]*storage.ResultSet
	fail    string
	seen    []string
}

func (s *scriptedRepo) ReplaceTable(ctx context.Context, name string, t *table.Table) (int64, error) {
	return 0, nil
}
func (s *scriptedRepo) Dialect() string { return "sqlite" }
func (s *scriptedRepo) Close()          {}
func (s *scriptedRepo) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	s.seen = append(s.seen, sql)
	if sql == s.fail {
		return nil, errors.New("connection reset")
	}
	if rs, ok := s.answers[sql]; ok {
		return rs, nil
	}
	return &storage.ResultSet{}, nil
}

func TestRunQueries(t *testing.T) {
	t.Parallel()

	qs := Queries("sqlite", "lux")
	repo := &scriptedRepo{answers: map[string]*storage.ResultSet{
		qs[0].SQL: {Columns: []string{"total_rows"}, Rows: [][]any{{int64(4)}}},
		qs[1].SQL: {Columns: []string{"booking_flag", "bookings"}, Rows: [][]any{{int64(0), int64(1)}, {int64(1), int64(3)}}},
		qs[2].SQL: {Columns: []string{"developer_name", "avg_ticket_price"}, Rows: [][]any{{"Prestige", 4.5}}},
	}}

	var buf bytes.Buffer
	res, err := RunQueries(context.Background(), repo, "lux", &buf, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []string{qs[0].SQL, qs[1].SQL, qs[2].SQL}, repo.seen)

	out := buf.String()
	assert.Contains(t, out, "Total Rows:")
	assert.Contains(t, out, "Booking Flag Distribution:")
	assert.Contains(t, out, "Prestige")
	assert.Contains(t, out, "(2 rows)")
}

func TestRunQueries_StopsOnError(t *testing.T) {
	t.Parallel()

	qs := Queries("sqlite", "lux")
	repo := &scriptedRepo{fail: qs[1].SQL}

	res, err := RunQueries(context.Background(), repo, "lux", &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query booking_flag")
	assert.Len(t, res, 1)
	assert.Len(t, repo.seen, 2)
}
