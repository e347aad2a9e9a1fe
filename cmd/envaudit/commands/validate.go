package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/envaudit/envaudit/pkg/config"
	"github.com/envaudit/envaudit/pkg/reconcile"
	"github.com/envaudit/envaudit/pkg/report"
	"github.com/envaudit/envaudit/pkg/scan"
	"github.com/envaudit/envaudit/pkg/spec"
)

func newValidateCommand() *cobra.Command {
	var (
		specPath    string
		envDir      string
		reportDir   string
		strict      bool
		workers     int
		fileTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate generated .env files against the variable specification",
		Long: `Validate the generated .env files against the documented variable
specification and write a categorized report.

This command:
  - Parses the specification document (domain sections + variable tables)
  - Scans every .env file in the config directory
  - Reconciles documentation against observed reality
  - Detects same-name/different-value drift across files
  - Writes a timestamped markdown report and prints a summary

Findings are informational: the exit code is zero unless --strict is set
or an input is missing entirely.`,
		Example: `  # Validate with explicit inputs
  envaudit validate --spec docs/ENV-VARIABLES.md --env-dir ./deploy/env

  # Fail the pipeline on any finding
  envaudit validate --spec docs/ENV-VARIABLES.md --env-dir ./deploy/env --strict

  # Machine-readable output
  envaudit validate --spec docs/ENV-VARIABLES.md --env-dir ./deploy/env --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags override config-file values.
			if cmd.Flags().Changed("spec") {
				cfg.SpecPath = specPath
			}
			if cmd.Flags().Changed("env-dir") {
				cfg.EnvDir = envDir
			}
			if cmd.Flags().Changed("report-dir") {
				cfg.ReportDir = reportDir
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("file-timeout") {
				cfg.FileTimeout = config.Duration(fileTimeout)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			return runValidate(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "specification document path")
	cmd.Flags().StringVar(&envDir, "env-dir", "", "directory containing generated .env files")
	cmd.Flags().StringVar(&reportDir, "report-dir", ".", "directory to write the report into")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any finding is reported")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel file-scan workers (0 = config default)")
	cmd.Flags().DurationVar(&fileTimeout, "file-timeout", 0, "per-file read timeout (0 = config default)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

func runValidate(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	runID := uuid.NewString()

	log.Info().
		Str("run_id", runID).
		Str("spec", cfg.SpecPath).
		Str("env_dir", cfg.EnvDir).
		Bool("strict", cfg.Strict).
		Msg("Validating environment configuration")

	// Parser and scanner run from independent inputs; both must complete
	// before the cross-reference index is built.
	parser := spec.NewParser(cfg.FilePrefix, cfg.ClassifierRules())
	doc, err := parser.ParseFile(cfg.SpecPath)
	if err != nil {
		return fmt.Errorf("failed to parse specification: %w", err)
	}
	log.Debug().
		Int("variables", len(doc.Specs)).
		Int("warnings", len(doc.Warnings)).
		Int("duplicates", len(doc.Duplicates)).
		Msg("Parsed specification document")

	scanResult, err := scan.Scan(ctx, cfg.EnvDir, scan.Options{
		Prefix:      cfg.FilePrefix,
		Workers:     cfg.Workers,
		FileTimeout: time.Duration(cfg.FileTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to scan config directory: %w", err)
	}
	log.Debug().
		Int("files", scanResult.FilesScanned).
		Int("assignments", len(scanResult.Assignments)).
		Int("warnings", len(scanResult.Warnings)).
		Msg("Scanned config directory")

	index := reconcile.NewIndex(doc.Specs, scanResult.Assignments)
	findings := reconcile.Reconcile(index)
	conflicts := reconcile.CheckConsistency(scanResult.Assignments)
	findings = reconcile.ApplyConflicts(findings, conflicts)

	warnings := make([]string, 0, len(doc.Warnings)+len(scanResult.Warnings))
	for _, w := range doc.Warnings {
		warnings = append(warnings, w.String())
	}
	warnings = append(warnings, scanResult.Warnings...)

	rep := report.Build(report.BuildInput{
		RunID:        runID,
		SpecPath:     cfg.SpecPath,
		EnvDir:       cfg.EnvDir,
		GeneratedAt:  time.Now().UTC(),
		Findings:     findings,
		Conflicts:    conflicts,
		Warnings:     warnings,
		FilesScanned: scanResult.FilesScanned,
	})

	path, err := rep.Write(cfg.ReportDir)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("report", path).Msg("Report written")

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), rep.ConsoleSummary())
	}

	if cfg.Strict {
		if n := rep.Summary.Missing + rep.Summary.Empty + rep.Summary.WrongFile + rep.Summary.Inconsistent; n > 0 {
			return fmt.Errorf("strict mode: %d finding(s) reported", n)
		}
	}
	return nil
}
