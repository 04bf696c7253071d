// Command ordersql reads messy_data.csv from the working directory, cleans the
// order records and prints INSERT statements for the customer_orders table.
//
// It takes no flags or arguments. The report goes to stdout and diagnostics to
// stderr; failures are reported on stdout and the process still exits 0.
package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ordersql/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, zapcore.InfoLevel)
	defer func() { _ = logger.Sync() }()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
