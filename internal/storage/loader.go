package storage

// This file implements a generic batched writer that splits rows into
// fixed-size batches and invokes a backend bulk-insert function (CopyFn) per
// batch. Backends implement CopyFn with their most efficient primitive
// (Postgres COPY, SQL Server bulk copy, multi-row INSERT elsewhere).

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"luxhousing/internal/logging"
)

// CopyFn inserts rows aligned to columns and returns the number of rows
// reported as inserted. It should cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches groups rows into batches of batchSize and calls copyFn for each.
// It returns the total reported by copyFn and the first error. Progress is
// logged at debug level after every batch.
func LoadBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
	log *zap.Logger,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}
	log = logging.OrNop(log)

	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))
		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Error("batch insert failed",
				zap.Int("batch", batches+1), zap.Int64("inserted", n), zap.Int64("total", total), zap.Error(err))
			return total, err
		}
		batches++
		log.Debug("batch inserted",
			zap.Int("batch", batches),
			zap.Int64("inserted", n),
			zap.Int64("total", total),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
	}
	return total, nil
}
