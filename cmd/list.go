package cmd

import (
	"github.com/TFMV/burrow/internal/search"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List a single directory, sorted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := searchOptions()
		if err != nil {
			return err
		}
		defer opts.Logger.Sync()

		records, err := search.ListDirectory(cmd.Context(), args[0], opts)
		return reportResult(records, err)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
