package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiomidi/ingest/internal/config"
	"github.com/audiomidi/ingest/internal/util"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "ami",
		Short: "Audio-MIDI ingest - load guitar research datasets into the storage landscape",
		Long: `ami ingests annotated guitar recording datasets (GuitarSet,
IDMT-SMT-Guitar) into a three-tier storage landscape: raw files into an
S3-compatible object store, per-recording metadata into PostgreSQL, and
time-indexed annotation series into MongoDB.

Runs are best effort: individual file failures are logged and counted,
never aborting the batch. Re-runs are safe because every write is an
idempotent upsert keyed by (dataset, title).`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/ami.yaml)")
	rootCmd.PersistentFlags().Int("limit", 0, "max files ingested per pass (0 = all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("limit", rootCmd.PersistentFlags().Lookup("limit"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	config.SetDefaults()
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("ami")
		viper.SetConfigType("yaml")
	}

	// A config file is optional; the environment alone is enough
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
	util.SetColors(util.IsTerminal(os.Stderr.Fd()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
