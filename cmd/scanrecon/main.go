package main

import (
	"context"
	"fmt"
	"os"

	"scanrecon/internal/app"
	"scanrecon/internal/config"
	"scanrecon/internal/report"
	"scanrecon/internal/scan"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a ScanApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "reconcile", "synctree").
func newApp(ctx context.Context, operation string) (*app.ScanApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewScanApp(ctx, cfg, operation, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "scanrecon",
	Short:        "Reconcile scanned images against harvest records and keep scan trees in sync",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := defaults.NewConfig()
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Database:      %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Reports:       %s\n", cfg.Report.Dir)
		if cfg.Report.S3Bucket != "" {
			fmt.Printf("Report Upload: s3://%s/%s (%s)\n", cfg.Report.S3Bucket, cfg.Report.S3Prefix, cfg.Report.S3Region)
		}
		fmt.Printf("Harvest:       batch=%s identifier=%s\n", cfg.Harvest.BatchColumn, cfg.Harvest.IdentifierColumn)
		fmt.Printf("Sync Keys:     %s\n", cfg.Sync.KeyMode)
		fmt.Printf("Folders:       %s<digits>%s\n", cfg.Sync.FolderPrefix, cfg.Sync.FolderSuffix)
		if len(cfg.Filesystem.Junk) > 0 {
			fmt.Printf("Extra Junk:    %v\n", cfg.Filesystem.Junk)
		}
		return nil
	},
}

// reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile ROOT",
	Short: "Compare the scans under ROOT with the harvest records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		harvestPath, _ := cmd.Flags().GetString("harvest")

		a, err := newApp(cmd.Context(), "reconcile")
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.Reconcile(cmd.Context(), args[0], harvestPath)
		if err != nil {
			return fmt.Errorf("reconcile failed: %w", err)
		}

		fmt.Printf("Report written to %s\n", out.ReportLocation)
		return nil
	},
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync SOURCE DEST",
	Short: "Copy scans missing under DEST from SOURCE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := newApp(cmd.Context(), "sync")
		if err != nil {
			return err
		}
		defer a.Close()

		if dryRun {
			if _, err := a.Plan(args[0], args[1]); err != nil {
				return fmt.Errorf("planning sync: %w", err)
			}
			return nil
		}

		res, err := a.Sync(args[0], args[1])
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if n := len(res.Result.Failures); n > 0 {
			return fmt.Errorf("%d file(s) could not be copied", n)
		}
		return nil
	},
}

// synctree command
var syncTreeCmd = &cobra.Command{
	Use:   "synctree FROM TO",
	Short: "Sync every scan collection folder under FROM into TO",
	Long: `Sync every scan collection folder under FROM into the folder of the same
name under TO. Collection folders are named <prefix><digits><suffix>, by
default scans_<year>_jpg. After each folder you are asked whether to go on
unless --yes is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp(cmd.Context(), "synctree")
		if err != nil {
			return err
		}
		defer a.Close()

		var confirm scan.Confirmer
		if !yes {
			confirm = newPromptConfirmer(os.Stdin, os.Stderr)
		}

		results, err := a.SyncTree(args[0], args[1], confirm)
		if err != nil {
			return fmt.Errorf("synctree stopped after %d folder(s): %w", len(results), err)
		}

		failed := 0
		for _, r := range results {
			failed += len(r.Result.Failures)
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) could not be copied", failed)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "history")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		return report.RenderHistory(os.Stdout, runs, a.Now())
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().String("harvest", "", "Harvest records CSV export")
	reconcileCmd.MarkFlagRequired("harvest")
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("dry-run", false, "Only show what would be copied")
	rootCmd.AddCommand(syncTreeCmd)
	syncTreeCmd.Flags().BoolP("yes", "y", false, "Do not ask before each folder")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
}
