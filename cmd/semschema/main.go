// Package main provides the semschema binary entry point.
// semschema validates schema.org-style vocabulary extensions against their
// base vocabularies, answers hierarchy queries and exports RDF.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semschema/export"
	"github.com/c360studio/semschema/schema"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semschema"
)

// errInvalid marks a run that completed but found invalid documents.
var errInvalid = errors.New("validation failed")

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
	base       []string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Schema.org vocabulary validator",
		Long: `semschema loads schema.org-style JSON-LD vocabulary extensions,
merges them with their base vocabularies and validates the result.

It provides:
- Validation of class and property records and of $validation rules
- Hierarchy queries for classes and properties
- RDF export (Turtle, N-Triples, JSON-LD)
- A watch mode that revalidates on change`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&flags.base, "base", nil, "Base vocabularies to load (default: derived from @context)")

	cmd.AddCommand(
		validateCmd(&flags),
		describeCmd(&flags),
		exportCmd(&flags),
		watchCmd(&flags),
		versionCmd(),
	)
	return cmd
}

func validateCmd(flags *globalFlags) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "validate <file|glob|url>...",
		Short: "Validate vocabulary documents and print a JSON report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.validate(cmd.Context(), args)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if metricsFile != "" {
				if err := a.writeMetrics(metricsFile); err != nil {
					return err
				}
			}
			if !report.Valid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write validation metrics in Prometheus textfile format")
	return cmd
}

func describeCmd(flags *globalFlags) *cobra.Command {
	var (
		output   string
		property bool
	)

	cmd := &cobra.Command{
		Use:   "describe <file|url> <class|property>",
		Short: "Describe a class or property of a vocabulary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputType, err := schema.ParseOutputType(output)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), describe(s, args[1], property, outputType))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "curie", "Identifier form (curie, uri, label)")
	cmd.Flags().BoolVarP(&property, "property", "p", false, "Look up a property instead of a class")
	return cmd
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		format  string
		scope   string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export <file|url>",
		Short: "Export a vocabulary as RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, outPath)
			if err != nil {
				return err
			}
			sc, err := export.ParseScope(scope)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			exporter := export.NewRDFExporter()
			exporter.AddVocabulary(s.Vocabulary(), sc)
			out, err := exporter.Export(f)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.logger.Info("Exported vocabulary",
				slog.String("path", outPath),
				slog.String("format", string(f)),
				slog.Int("terms", len(exporter.Entities())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (turtle, ntriples, jsonld; default from --out or turtle)")
	cmd.Flags().StringVar(&scope, "scope", string(export.ScopeExtension), "Terms to export (extension, merged)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>...",
		Short: "Revalidate vocabulary files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.watch(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func resolveFormat(format, outPath string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if f, ok := export.FormatForPath(outPath); ok {
		return f, nil
	}
	return export.FormatTurtle, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
