package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse_FirstSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Micro_Market", "Ticket_Price_Cr", "Amenity_Score"},
		{" whitefield ", "4.5", "7.5"},
		{"Hebbal", "N/A"},
	})

	tb, err := NewParser(Options{}).Parse(buf)
	require.NoError(t, err)
	require.Equal(t, 2, tb.Len())
	require.Equal(t, []string{"Micro_Market", "Ticket_Price_Cr", "Amenity_Score"}, tb.Columns())

	s, ok := tb.Get(0, "Micro_Market").Str()
	require.True(t, ok)
	require.Equal(t, " whitefield ", s)
	require.True(t, tb.Get(1, "Ticket_Price_Cr").IsMissing(), "N/A should be missing")
	require.True(t, tb.Get(1, "Amenity_Score").IsMissing(), "short rows are padded")
}

func TestParse_UnknownSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"a"}, {"1"}})
	_, err := NewParser(Options{Sheet: "Nope"}).Parse(buf)
	require.Error(t, err)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := NewParser(Options{}).Parse(bytes.NewBufferString("a,b\n1,2\n"))
	require.Error(t, err)
}
