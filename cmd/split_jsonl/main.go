package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"tico-dataset/cmd"
	"tico-dataset/internal/config"
	"tico-dataset/internal/core/shuffle"
	"tico-dataset/internal/core/split"
	"tico-dataset/internal/core/types"
	"tico-dataset/internal/jsonl"
	"tico-dataset/internal/manifest"
	"tico-dataset/internal/storage"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		cfg     config.SplitConfig
		envFile string
	)
	// env errors surface again from LoadConfig in PreRunE
	_ = config.Parse(&cfg)

	root := &cobra.Command{
		Use:   "split_jsonl",
		Short: "Shuffle a JSONL dataset and split it into train, valid and test files",
		Long: `Loads every JSON record from the input, shuffles them with a seeded
generator and writes train, valid and test partitions plus an eval file
holding the first tenth of train (at least one record).

The same input, seed and ratios always produce the same files. With the
default mt19937 shuffle the partitions match Python's random.shuffle.

Example:
  split_jsonl --seed 42 --train-ratio 0.8 --valid-ratio 0.1
  split_jsonl --input s3://datasets/tico/source.jsonl --train s3://datasets/tico/train.jsonl`,
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
	flags.StringVar(&cfg.Input, "input", cfg.Input, "JSONL dataset to split (SPLIT_INPUT)")
	flags.StringVar(&cfg.Train, "train", cfg.Train, "train output (SPLIT_TRAIN)")
	flags.StringVar(&cfg.Valid, "valid", cfg.Valid, "validation output (SPLIT_VALID)")
	flags.StringVar(&cfg.Test, "test", cfg.Test, "test output (SPLIT_TEST)")
	flags.StringVar(&cfg.Eval, "eval", cfg.Eval, "eval output, empty to skip (SPLIT_EVAL)")
	flags.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "YAML manifest output, empty to skip (SPLIT_MANIFEST)")
	flags.Float64Var(&cfg.TrainRatio, "train-ratio", cfg.TrainRatio, "fraction of records for train (SPLIT_TRAIN_RATIO)")
	flags.Float64Var(&cfg.ValidRatio, "valid-ratio", cfg.ValidRatio, "fraction of records for valid (SPLIT_VALID_RATIO)")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "shuffle seed (SPLIT_SEED)")
	flags.StringVar(&cfg.Shuffle, "shuffle", cfg.Shuffle, "shuffle algorithm: mt19937 or pcg (SPLIT_SHUFFLE)")
	flags.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar while writing (PROGRESS)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	flags.StringVar(&envFile, "env", "", "path to load env from")

	return root
}

type output struct {
	name    string
	path    string
	records []*types.Record
}

func run(ctx context.Context, cfg config.SplitConfig) error {
	opts := split.Options{
		TrainRatio: cfg.TrainRatio,
		ValidRatio: cfg.ValidRatio,
		Seed:       cfg.Seed,
		Algorithm:  shuffle.Algorithm(cfg.Shuffle),
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := shuffle.New(opts.Algorithm, opts.Seed); err != nil {
		return err
	}

	router, err := storage.NewRouter(cfg.Storage.S3Client())
	if err != nil {
		return err
	}

	data, err := cmd.ReadInput(ctx, router, cfg.Input)
	if err != nil {
		return err
	}

	records, stats, err := jsonl.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	slog.Info("loaded records", "input", cfg.Input, "records", stats.Records, "malformed", stats.Malformed, "blank", stats.Blank)
	if len(records) > 0 {
		slog.Debug("first record", "keys", records[0].Keys())
	}

	parts, err := split.Split(records, opts)
	if err != nil {
		return err
	}

	outputs := []output{
		{name: "train", path: cfg.Train, records: parts.Train},
		{name: "valid", path: cfg.Valid, records: parts.Valid},
		{name: "test", path: cfg.Test, records: parts.Test},
	}
	if cfg.Eval != "" {
		outputs = append(outputs, output{name: "eval", path: cfg.Eval, records: parts.Eval})
	}

	var prev *manifest.Manifest
	if cfg.Manifest != "" {
		prev = loadPreviousManifest(ctx, router, cfg.Manifest)
	}

	// outputs are written in order, so a later split sharing a destination
	// with an earlier one replaces it
	m := manifest.New(cfg.Input, len(records), opts.Seed, string(opts.Algorithm), opts.TrainRatio, opts.ValidRatio)
	for _, o := range outputs {
		out, err := jsonl.Marshal(o.records)
		if err != nil {
			return err
		}
		if err := cmd.WriteOutput(ctx, router, o.path, out, cfg.Progress); err != nil {
			return err
		}
		if replaced, ok := m.AddOutput(o.name, o.path, len(o.records), out); ok {
			slog.Warn("split overwrote an earlier output", "split", o.name, "replaced", replaced.Name, "output", o.path)
		}
		written, _ := m.Output(o.name)
		slog.Info("wrote split", "split", o.name, "records", len(o.records), "output", o.path, "sha256", written.SHA256)
	}

	if prev != nil {
		if changed := m.Changed(prev); len(changed) > 0 {
			slog.Info("outputs changed since previous run", "previous_run_id", prev.RunID, "changed", changed)
		} else {
			slog.Info("outputs unchanged since previous run", "previous_run_id", prev.RunID)
		}
	}

	if cfg.Manifest != "" {
		out, err := m.Marshal()
		if err != nil {
			return err
		}
		if err := cmd.WriteOutput(ctx, router, cfg.Manifest, out, false); err != nil {
			return err
		}
	}

	slog.Info("split complete",
		"records", len(records),
		"train", len(parts.Train),
		"valid", len(parts.Valid),
		"test", len(parts.Test),
		"eval", len(parts.Eval),
		"seed", opts.Seed,
		"shuffle", opts.Algorithm,
		"run_id", m.RunID,
	)
	return nil
}

// loadPreviousManifest returns the manifest left by an earlier run at path,
// or nil when there is none or it cannot be read.
func loadPreviousManifest(ctx context.Context, router *storage.Router, path string) *manifest.Manifest {
	loc, err := storage.ParseLocation(path)
	if err != nil {
		return nil
	}
	data, err := router.Read(ctx, loc)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("failed to read previous manifest", "manifest", path, "error", err)
		}
		return nil
	}
	prev, err := manifest.Parse(data)
	if err != nil {
		slog.Warn("ignoring unreadable previous manifest", "manifest", path, "error", err)
		return nil
	}
	return prev
}

func main() {
	cmd.Execute(newRootCmd())
}
