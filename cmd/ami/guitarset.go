package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiomidi/ingest/internal/config"
	"github.com/audiomidi/ingest/internal/ingest"
	"github.com/audiomidi/ingest/internal/util"
)

var guitarSetCmd = &cobra.Command{
	Use:   "guitarset",
	Short: "Ingest the GuitarSet dataset",
	Long: `Ingest the GuitarSet dataset from a local directory tree.

Two passes run in order: JAMS annotation files (object store + metadata
row + annotation series documents), then raw WAV audio (object store
only). The batch completes even when individual files fail; only a
missing dataset root aborts it.`,
	RunE: runGuitarSet,
}

func init() {
	guitarSetCmd.Flags().String("root", "", "GuitarSet dataset root directory")
	viper.BindPFlag("guitarset.root", guitarSetCmd.Flags().Lookup("root"))
	rootCmd.AddCommand(guitarSetCmd)
}

func runGuitarSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.GuitarSetRoot == "" {
		return fmt.Errorf("GuitarSet root is required (use --root or set AMI_GUITARSET_ROOT)")
	}

	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.close(ctx)

	driver := &ingest.GuitarSetDriver{
		Processor: stores.newProcessor(),
		Root:      cfg.GuitarSetRoot,
		Limit:     cfg.Limit,
	}

	start := time.Now()
	snapshot, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("GuitarSet ingestion failed: %w", err)
	}

	util.InfoLog("Total time: %v", time.Since(start).Round(time.Millisecond))
	printSummary(snapshot)
	return nil
}
