package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	logLevel int
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "metrix",
	Short:   "Security-constrained optimal power flow engine",
	Long:    `metrix runs the SCOPF batch engine over a sequence of network variants, screening each for thermal violations under N-1/N-k contingencies and generating preventive and curative remedial actions.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (native KEY = TYPE:VALUE format)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().IntVar(&logLevel, "log-level", 3, "log verbosity 0 (silent) .. 5 (trace)")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
