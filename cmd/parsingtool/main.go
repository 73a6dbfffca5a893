package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/parsingtool/internal/batch"
	"github.com/a3tai/parsingtool/internal/config"
	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/mcp"
	"github.com/a3tai/parsingtool/internal/pdf"
	"github.com/a3tai/parsingtool/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "parsingtool",
		Short: "Parsing tool CLI: extract business-document fields from PDFs into CSV",
		Long: `Parsing tool CLI

Reads domestic delivery notes, export orders and packing instructions,
extracts their fields and writes fixed-schema CSV files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetVersionTemplate(versionText())
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML, TOML or JSON)")

	for _, dc := range []struct {
		use   string
		dt    pipeline.DocType
		short string
	}{
		{"domestic [paths...]", pipeline.Domestic, "Parse domestic delivery notes into batch and SSCC CSVs"},
		{"export [paths...]", pipeline.Export, "Parse export orders into export CSVs (*_PI.pdf and *_ZAPI.pdf go to the packing list parser)"},
		{"packing-list [paths...]", pipeline.PackingList, "Parse packing instructions into packing CSVs"},
	} {
		root.AddCommand(newDocCmd(dc.use, dc.dt, dc.short, &configFile))
	}
	root.AddCommand(newServeCmd(&configFile), newDoctorCmd(&configFile))
	return root
}

func newDocCmd(use string, dt pipeline.DocType, short string, configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return batch.ErrNoInputs
			}
			cfg, err := config.Load(cmd.Flags(), *configFile)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			if cfg.UseOCR {
				if st := pdf.ToolStatus(cfg.OCR()); !st.Ready() {
					logger.Warn("OCR requested but tools are missing", "tesseract", st.Tesseract, "pdftoppm", st.Pdftoppm)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			extractor := pdf.NewExtractor(cfg.MaxFileSize, cfg.OCR(), logger)
			sum, err := batch.NewRunner(engine, extractor, logger).Run(ctx, batch.Options{
				Mode:    dt,
				Inputs:  args,
				OutDir:  cfg.OutDir,
				UseOCR:  cfg.UseOCR,
				Debug:   cfg.Debug,
				Combine: cfg.Combine,
				QC:      cfg.QC,
				XLSX:    cfg.XLSX,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newServeCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), *configFile)
			if err != nil {
				return err
			}
			if version != "dev" {
				cfg.Version = version
			}

			// stdout carries the protocol in stdio mode.
			logger := newLogger(os.Stderr, cfg)
			logger.Debug("starting with configuration", "config", cfg.String())

			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			server, err := mcp.NewServer(cfg, engine, pdf.NewExtractor(cfg.MaxFileSize, cfg.OCR(), logger), logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	config.RegisterServerFlags(cmd.Flags())
	return cmd
}

func newDoctorCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report OCR tool availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(nil, *configFile)
			if err != nil {
				return err
			}
			st := pdf.ToolStatus(cfg.OCR())
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, st.Mode())
			fmt.Fprintf(w, "tesseract: %t\n", st.Tesseract)
			fmt.Fprintf(w, "pdftoppm: %t\n", st.Pdftoppm)
			return nil
		},
	}
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*pipeline.Engine, error) {
	var rules extract.Rules
	if cfg.RulesFile != "" {
		r, err := extract.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = r
	}
	return pipeline.NewEngine(rules, logger)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func printSummary(w io.Writer, sum batch.Summary) {
	fmt.Fprintf(w, "Run %s (%s): %d file(s), %d processed, %d skipped, %d failed, %d row(s)\n",
		sum.RunID, sum.Mode, sum.Files, sum.Processed, sum.Skipped, sum.Failed, sum.Rows)
	for _, o := range sum.Outputs {
		fmt.Fprintf(w, "  wrote %s\n", o)
	}
}

// versionText is the --version output.
func versionText() string {
	return fmt.Sprintf("Parsing Tool\nVersion: %s\nBuild Time: %s\nGit Commit: %s\nBuilt with: %s\n",
		version, buildTime, gitCommit, runtime.Version())
}
