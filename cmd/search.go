package cmd

import (
	"github.com/TFMV/burrow/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search [options] <substring> <path>",
	Short: "Find entries whose name contains a substring",
	Long: `Search a directory tree for files and directories whose name contains
the given substring (case-sensitive). Names are matched without their
extension, so "main" finds main.go but ".go" finds nothing. Results are
printed directories first, then by name.

Examples:
  burrow search report ~/Documents
  burrow search "" /tmp --strategy=pool --workers=8
  burrow search main . --format=json
  burrow search test ./src --template="{type} {name} ({ext})"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("strategy", "s", string(search.StrategyParallel), "Traversal strategy (parallel|pool)")
	viper.BindPFlag("search.strategy", searchCmd.Flags().Lookup("strategy"))
}

func runSearch(cmd *cobra.Command, substring, root string) error {
	strategy, err := search.ParseStrategy(viper.GetString("search.strategy"))
	if err != nil {
		return err
	}
	opts, err := searchOptions()
	if err != nil {
		return err
	}
	defer opts.Logger.Sync()

	records, err := search.Run(cmd.Context(), strategy, substring, root, opts)
	return reportResult(records, err)
}
