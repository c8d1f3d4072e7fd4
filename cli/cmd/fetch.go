package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

func handleSnapshotRefresh(ctx context.Context, refresher currency.Refresher, base string, logger hclog.Logger) error {
	table, err := refresher.Refresh(ctx, base)

	if err != nil {
		logger.Error("failed to refresh snapshot", "base", base, "err", err)

		return err
	}

	logger.Info("snapshot refreshed", "base", table.Base, "rates", len(table.Rates))
	logger.Debug("snapshot rates", "base", table.Base, "codes", table.Codes())

	return nil
}

func fetchCobraCommand(config *Config, standalone *bool, after *time.Duration) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if *standalone && *after <= 0 {
			return errors.New("--after must be positive")
		}

		services, err := config.load(cmd)
		if err != nil {
			return err
		}

		if services.Refresher == nil {
			return errors.New("no refresher configured")
		}

		ctx := cmd.Context()
		logger := config.logger.Named("fetch")

		err = handleSnapshotRefresh(ctx, services.Refresher, args[0], logger)

		if !*standalone {
			return err
		}

		ticker := time.NewTicker(*after)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// failures are logged and retried on the next tick
				_ = handleSnapshotRefresh(ctx, services.Refresher, args[0], logger)
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func fetch(config *Config) *cobra.Command {
	var standalone bool
	var after time.Duration

	fetchCmd := &cobra.Command{
		Use:   "fetch <base>",
		Short: "Fetch the rate table for base and store it as the offline snapshot",
		Args:  cobra.ExactArgs(1),
	}

	fetchCmd.RunE = fetchCobraCommand(config, &standalone, &after)
	fetchCmd.Flags().BoolVar(&standalone, "standalone", false, "Start up a long running fetching service")
	fetchCmd.Flags().DurationVar(&after, "after", time.Duration(1)*time.Hour, "Fetching interval for standalone process")

	return fetchCmd
}
