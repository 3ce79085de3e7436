package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tico-dataset/cmd"
	"tico-dataset/internal/config"
	"tico-dataset/internal/core/extract"
	"tico-dataset/internal/jsonl"
	"tico-dataset/internal/storage"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		cfg     config.ExtractConfig
		envFile string
	)
	// env errors surface again from LoadConfig in PreRunE
	_ = config.Parse(&cfg)

	root := &cobra.Command{
		Use:   "make_jsonl",
		Short: "Convert term::explanation lines into a JSONL dataset",
		Long: `Reads a text file where each line has the form

  term::explanation

and writes one JSON record per valid line using the selected output format.
Lines without the separator or with an empty side are skipped.

Example:
  make_jsonl --input data/source_augmented.txt --output data/source_augmented.jsonl
  make_jsonl --format instruction --output s3://datasets/tico/source.jsonl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if err := cmd.LoadConfig(c.Flags(), envFile, &cfg); err != nil {
				return err
			}
			return cmd.SetupLogger(c.ErrOrStderr(), cfg.LogLevel)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(c.Context(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.Input, "input", cfg.Input, "source text file or s3:// location (EXTRACT_INPUT)")
	flags.StringVar(&cfg.Output, "output", cfg.Output, "destination JSONL file or s3:// location (EXTRACT_OUTPUT)")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "output record format (EXTRACT_FORMAT)")
	flags.StringVar(&cfg.FormatsFile, "formats", cfg.FormatsFile, "YAML file with custom formats, replaces the built-in ones (EXTRACT_FORMATS_FILE)")
	flags.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar while writing (PROGRESS)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	flags.StringVar(&envFile, "env", "", "path to load env from")

	return root
}

func run(ctx context.Context, cfg config.ExtractConfig) error {
	router, err := storage.NewRouter(cfg.Storage.S3Client())
	if err != nil {
		return err
	}

	formats, err := loadFormats(ctx, router, cfg.FormatsFile)
	if err != nil {
		return err
	}
	format, err := extract.Lookup(formats, cfg.Format)
	if err != nil {
		return err
	}

	data, err := cmd.ReadInput(ctx, router, cfg.Input)
	if err != nil {
		return err
	}

	records, stats, err := extract.Convert(bytes.NewReader(data), format)
	if err != nil {
		return err
	}

	out, err := jsonl.Marshal(records)
	if err != nil {
		return err
	}
	if err := cmd.WriteOutput(ctx, router, cfg.Output, out, cfg.Progress); err != nil {
		return err
	}

	slog.Info("conversion complete",
		"lines", stats.LinesRead,
		"records", stats.RecordsWritten,
		"skipped", stats.Skipped,
		"format", format.Name,
		"output", cfg.Output,
	)
	return nil
}

var ErrFormatsNotFound = errors.New("formats file not found")

func loadFormats(ctx context.Context, router *storage.Router, path string) (map[string]*extract.Format, error) {
	if path == "" {
		return extract.DefaultFormats()
	}

	loc, err := storage.ParseLocation(path)
	if err != nil {
		return nil, err
	}
	data, err := router.Read(ctx, loc)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFormatsNotFound, path)
		}
		return nil, fmt.Errorf("error reading formats %s: %w", path, err)
	}
	slog.Debug("loaded custom formats", "path", path)
	return extract.ParseFormats(data)
}

func main() {
	cmd.Execute(newRootCmd())
}
