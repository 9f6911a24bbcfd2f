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

var idmtCmd = &cobra.Command{
	Use:   "idmt-smt",
	Short: "Ingest the IDMT-SMT-Guitar dataset",
	Long: `Ingest the IDMT-SMT-Guitar dataset from a local directory tree.

Subsets 1 to 3 are ingested by default and can be narrowed with
--subsets. Subset 1 carries the recording setup in its instrument
directory names, which are parsed and overlaid onto the XML metadata.`,
	RunE: runIDMT,
}

func init() {
	idmtCmd.Flags().String("root", "", "IDMT-SMT-Guitar dataset root directory")
	idmtCmd.Flags().IntSlice("subsets", []int{1, 2, 3}, "dataset subsets to ingest")
	viper.BindPFlag("idmt.root", idmtCmd.Flags().Lookup("root"))
	viper.BindPFlag("idmt.subsets", idmtCmd.Flags().Lookup("subsets"))
	rootCmd.AddCommand(idmtCmd)
}

func runIDMT(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.IDMTRoot == "" {
		return fmt.Errorf("IDMT-SMT-Guitar root is required (use --root or set AMI_IDMT_ROOT)")
	}

	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.close(ctx)

	driver := &ingest.IDMTDriver{
		Processor: stores.newProcessor(),
		Root:      cfg.IDMTRoot,
		Limit:     cfg.Limit,
		Subsets:   cfg.IDMTSubsets,
	}

	start := time.Now()
	snapshot, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("IDMT-SMT-Guitar ingestion failed: %w", err)
	}

	util.InfoLog("Total time: %v", time.Since(start).Round(time.Millisecond))
	printSummary(snapshot)
	return nil
}
