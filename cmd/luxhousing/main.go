// Command luxhousing cleans the luxury housing dataset and loads it into a
// relational database.
//
//	luxhousing run --config configs/pipelines/luxury_housing_sqlite.yaml -v
//	luxhousing run --input Luxury_Housing_Bangalore.csv --db-kind sqlite --dsn lux.db
//	luxhousing validate --config configs/pipelines/luxury_housing.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// register all backends with the storage factory.
	_ "luxhousing/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
