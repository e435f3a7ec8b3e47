package storage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceRows feeds fixed rows through the RowScanner interface.
type sliceRows struct {
	cols []string
	data [][]any
	i    int
	err  error
}

func (s *sliceRows) Columns() ([]string, error) { return s.cols, nil }
func (s *sliceRows) Next() bool                 { s.i++; return s.i <= len(s.data) }
func (s *sliceRows) Err() error                 { return s.err }
func (s *sliceRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*any)) = s.data[s.i-1][i]
	}
	return nil
}

func TestCollect_Normalizes(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	rows := &sliceRows{
		cols: []string{"a", "b", "c", "d", "e"},
		data: [][]any{
			{[]byte("dev"), int32(2), float32(1.5), ts, nil},
			{"x", 7, 2.25, true, id},
		},
	}

	rs, err := Collect(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rs.Columns)
	want := [][]any{
		{"dev", int64(2), float64(1.5), ts, nil},
		{"x", int64(7), 2.25, true, id.String()},
	}
	assert.True(t, reflect.DeepEqual(want, rs.Rows), "rows=%#v", rs.Rows)

	n, ok := rs.Int(0, 1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
	_, ok = rs.Int(1, 2)
	assert.False(t, ok, "2.25 is not integral")
}

func TestCollect_IterationError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Collect(&sliceRows{cols: []string{"a"}, err: boom})
	require.ErrorIs(t, err, boom)
}
