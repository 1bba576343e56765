package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/TFMV/burrow/internal/record"
	"github.com/TFMV/burrow/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Parallel recursive file search",
	Long: `burrow searches a directory tree for entries whose name contains a
substring and prints them directories first, then by name.

Two traversal strategies are available: a data-parallel walk and a fan-out
through a small worker pool. Both return the same result.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.burrow.yaml)")
	flags.IntP("workers", "w", search.DefaultPoolSize, "Worker pool size for the pool strategy")
	flags.Int("parallelism", 0, "Goroutines per directory for the parallel strategy (0 = GOMAXPROCS)")
	flags.Int("sort-threshold", record.DefaultSortThreshold, "Smallest split sorted on a new goroutine")
	flags.Bool("normalize", false, "Match names in Unicode NFC")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("silent", false, "Disable all output except errors")
	flags.String("log-level", "warn", "Log level (error|warn|info|debug)")
	flags.String("format", "text", "Output format (text|json)")
	flags.String("template", "", "Output template, e.g. \"{dir} {name}.{ext} -> {path}\"")

	for _, name := range []string{
		"workers", "parallelism", "sort-threshold", "normalize",
		"verbose", "silent", "log-level", "format", "template",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".burrow" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".burrow")
	}

	viper.SetEnvPrefix("burrow")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// logLevel maps --verbose, --silent and --log-level to a LogLevel.
func logLevel() search.LogLevel {
	switch {
	case viper.GetBool("verbose"):
		return search.LogLevelDebug
	case viper.GetBool("silent"):
		return search.LogLevelError
	default:
		return search.ParseLogLevel(viper.GetString("log-level"))
	}
}

// iconTable builds the icon table from the built-in defaults and the
// "icons", "icons-dir" and "icons-default" config keys.
func iconTable() record.IconTable {
	return record.DefaultIcons().Merge(record.IconTable{
		Dir:     viper.GetString("icons-dir"),
		Default: viper.GetString("icons-default"),
		ByExt:   viper.GetStringMapString("icons"),
	})
}

// searchOptions assembles search.Options from flags, environment and config.
func searchOptions() (search.Options, error) {
	workers := viper.GetInt("workers")
	if workers <= 1 {
		return search.Options{}, fmt.Errorf("invalid workers value: %d (must be greater than 1)", workers)
	}
	threshold := viper.GetInt("sort-threshold")
	if threshold == 0 {
		threshold = record.DefaultSortThreshold
	}

	level := logLevel()
	return search.Options{
		Icons:         iconTable(),
		PoolSize:      workers,
		Parallelism:   viper.GetInt("parallelism"),
		SortThreshold: threshold,
		Normalize:     viper.GetBool("normalize"),
		Logger:        search.NewLogger(level),
		LogLevel:      level,
	}, nil
}
