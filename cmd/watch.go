package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TFMV/burrow/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [options] <substring> [path]",
	Short: "Search again whenever the tree changes",
	Long: `Run a search, then run it again every time something below the path is
created, modified, renamed or removed. Each run prints the complete result.

Examples:
  burrow watch report ~/Documents
  burrow watch .log /var/log --debounce=1s --strategy=pool
  burrow watch todo . --timeout=10m`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get the directory to watch
		watchDir := "."
		if len(args) > 1 {
			watchDir = args[1]
		}
		return runWatch(cmd.Context(), args[0], watchDir)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("strategy", "s", string(search.StrategyParallel), "Traversal strategy (parallel|pool)")
	watchCmd.Flags().Duration("debounce", search.DefaultDebounce, "Quiet period before searching again")
	watchCmd.Flags().Duration("timeout", 0, "Duration to watch before exiting (e.g., 1h, 30m)")

	viper.BindPFlag("watch.strategy", watchCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))
	viper.BindPFlag("watch.timeout", watchCmd.Flags().Lookup("timeout"))
}

func runWatch(ctx context.Context, substring, dir string) error {
	strategy, err := search.ParseStrategy(viper.GetString("watch.strategy"))
	if err != nil {
		return err
	}
	opts, err := searchOptions()
	if err != nil {
		return err
	}
	defer opts.Logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := viper.GetDuration("watch.timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if !viper.GetBool("silent") {
		fmt.Fprintf(os.Stderr, "Watching %s for changes...\nPress Ctrl+C to exit.\n", dir)
	}

	watchOpts := search.WatchOptions{
		Strategy: strategy,
		Debounce: viper.GetDuration("watch.debounce"),
		Search:   opts,
	}
	return search.Watch(ctx, dir, substring, watchOpts, func(ctx context.Context, result search.WatchResult) error {
		if result.Records == nil && result.Err != nil && !search.IsPartial(result.Err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", result.Err)
			return nil
		}
		if result.Trigger != "" && !viper.GetBool("silent") {
			fmt.Fprintf(os.Stderr, "--- %s changed at %s ---\n", result.Trigger, time.Now().Format(time.TimeOnly))
		}
		return reportResult(result.Records, result.Err)
	})
}
