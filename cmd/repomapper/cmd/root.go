package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vphantom/repomapper/internal/app"
	"github.com/vphantom/repomapper/internal/domain/ignore"
)

const defaultOutput = "MAP.txt"

var (
	flagOutput  string
	flagExclude []string
	flagDisable []string
	flagJobs    int
	flagNoCache bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repomapper",
	Short: "repomapper — symbol map generator for source trees",
	Long:  "Generates a structured map of every file's symbols (via universal-ctags) for LLM coding assistants.",
	RunE:  runGenerate, // bare invocation generates the map
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", defaultOutput, "output file path (use - for stdout)")
	rootCmd.PersistentFlags().StringSliceVar(&flagExclude, "exclude", nil, "extra ignore patterns (gitignore syntax)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisable, "disable-handler", nil, "handler names to disable")
	rootCmd.PersistentFlags().IntVarP(&flagJobs, "jobs", "j", 0, "tag extraction workers (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "skip the tag record cache")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log pipeline progress to stderr")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .repomapper.yaml from the repository root, if present.
// Flags set explicitly on the command line win over the file.
func initConfig() {
	viper.SetConfigName(".repomapper")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ignore.FindRoot(workingDir()))
	if err := viper.ReadInConfig(); err != nil {
		return // no config file is the normal case
	}
	if !rootCmd.PersistentFlags().Changed("output") && viper.IsSet("output") {
		flagOutput = viper.GetString("output")
	}
	if !rootCmd.PersistentFlags().Changed("exclude") && viper.IsSet("exclude") {
		flagExclude = viper.GetStringSlice("exclude")
	}
	if !rootCmd.PersistentFlags().Changed("disable-handler") && viper.IsSet("disable_handlers") {
		flagDisable = viper.GetStringSlice("disable_handlers")
	}
	if !rootCmd.PersistentFlags().Changed("jobs") && viper.IsSet("jobs") {
		flagJobs = viper.GetInt("jobs")
	}
}

// workingDir returns the current directory, or exits: nothing works without it.
func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// buildOptions assembles the pipeline options from flags for the given
// target directory.
func buildOptions(dir string) app.Options {
	opts := app.Options{
		Root:             dir,
		Output:           flagOutput,
		ExtraIgnores:     flagExclude,
		DisabledHandlers: flagDisable,
		Concurrency:      flagJobs,
	}
	if !flagNoCache {
		opts.CacheDB = filepath.Join(ignore.FindRoot(dir), ".repomapper", "cache.db")
	}
	if flagVerbose {
		opts.Logger = newStderrLogger()
	}
	return opts
}

// targetDir resolves the optional positional directory argument.
func targetDir(args []string) string {
	if len(args) == 0 {
		return workingDir()
	}
	if filepath.IsAbs(args[0]) {
		return args[0]
	}
	return filepath.Join(workingDir(), args[0])
}
