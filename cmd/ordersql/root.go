package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ordersql/internal/config"
	"ordersql/internal/etl"
)

// errInvalidConfig is returned when the built-in pipeline fails validation.
var errInvalidConfig = errors.New("invalid pipeline configuration")

func newRootCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ordersql",
		Short: "Clean messy_data.csv and print INSERT statements for customer_orders",
		Long: `ordersql reads messy_data.csv from the working directory, normalizes
emails, order ids, prices and sale dates, and prints one INSERT statement per
row for the customer_orders table, after markdown previews of the raw and
cleaned data. The statements are printed, never executed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if err := checkConfig(cfg, logger); err != nil {
				return err
			}
			// Run has already printed the failure message; a failed run is
			// still a normal exit.
			_, _ = etl.Run(cmd.Context(), cfg, etl.Options{
				Stdout: cmd.OutOrStdout(),
				Logger: logger,
			})
			return nil
		},
	}
}

func checkConfig(cfg config.Pipeline, logger *zap.Logger) error {
	issues := config.ValidatePipeline(cfg)
	for _, iss := range issues {
		logger.Warn("config issue",
			zap.String("severity", string(iss.Severity)),
			zap.String("path", iss.Path),
			zap.String("message", iss.Message),
		)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("%w: %d issue(s)", errInvalidConfig, len(issues))
	}
	return nil
}
