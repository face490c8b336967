package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/waste-classifier/internal/conformance"
)

func conformanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Check or generate classification vectors",
	}

	cmd.AddCommand(conformanceCheckCmd())
	cmd.AddCommand(conformanceGenerateCmd())

	return cmd
}

func conformanceCheckCmd() *cobra.Command {
	var (
		limit     int
		reportDir string
	)

	cmd := &cobra.Command{
		Use:   "check <dataset.csv>",
		Short: "Verify that the catalog reproduces every vector in a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			dataset, err := conformance.LoadDataset(args[0], limit)
			if err != nil {
				return err
			}

			start := time.Now()
			report := conformance.Check(catalog, dataset)
			zap.L().Info("conformance check finished",
				zap.Int("total", report.Total),
				zap.Int("failed", report.Failed),
				zap.Duration("elapsed", time.Since(start)))

			out := cmd.OutOrStdout()
			for _, m := range report.Mismatches {
				fmt.Fprintf(out, "line %d: %s (%d bytes): expected %s %g, got %s %g\n",
					m.Line, m.Expected.FileName, m.Expected.SizeBytes,
					m.Expected.Type, m.Expected.Confidence, m.Got.Type, m.Got.Confidence)
			}
			fmt.Fprintf(out, "%d/%d vectors passed\n", report.Passed, report.Total)

			if reportDir != "" {
				path, err := conformance.SaveReport(report, reportDir)
				if err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				fmt.Fprintf(out, "Report saved to %s\n", path)
			}

			if !report.OK() {
				return fmt.Errorf("%d vectors did not match", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of vectors to check (default: all, up to 10000)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory to write a JSON report to")

	return cmd
}

func conformanceGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <name:size>...",
		Short: "Print the vectors for the given file names and sizes as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			inputs := make([]conformance.Vector, 0, len(args))
			for _, arg := range args {
				v, err := parseVectorInput(arg)
				if err != nil {
					return err
				}
				inputs = append(inputs, v)
			}

			return conformance.WriteDataset(cmd.OutOrStdout(), conformance.Generate(catalog, inputs))
		},
	}
}

// parseVectorInput splits "name:size" at the last colon so names may contain colons
func parseVectorInput(arg string) (conformance.Vector, error) {
	i := strings.LastIndex(arg, ":")
	if i < 0 {
		return conformance.Vector{}, fmt.Errorf("invalid input %q: expected name:size", arg)
	}

	size, err := strconv.ParseInt(arg[i+1:], 10, 64)
	if err != nil {
		return conformance.Vector{}, fmt.Errorf("invalid size in %q: %w", arg, err)
	}

	return conformance.Vector{FileName: arg[:i], SizeBytes: size}, nil
}
