package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tico-dataset/internal/config"
	"tico-dataset/internal/storage"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var ErrInputNotFound = errors.New("input file not found")

// SetupLogger installs a text handler on stderr as the default slog logger.
func SetupLogger(w io.Writer, level string) error {
	l, err := config.ParseLogLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}

// LoadConfig loads the optional env file and re-reads cfg from the
// environment. Flags given explicitly on the command line are applied again
// afterwards so they take precedence over the environment.
func LoadConfig(flags *pflag.FlagSet, envFile string, cfg any) error {
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	if err := config.Parse(cfg); err != nil {
		return err
	}

	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("error applying flag --%s: %w", name, err)
		}
	}
	return nil
}

func ReadInput(ctx context.Context, router *storage.Router, path string) ([]byte, error) {
	loc, err := storage.ParseLocation(path)
	if err != nil {
		return nil, err
	}

	data, err := router.Read(ctx, loc)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("error reading input %s: %w", path, err)
	}
	return data, nil
}

// WriteOutput writes data to a local path or s3:// location, showing a byte
// progress bar on stderr when progress is set.
func WriteOutput(ctx context.Context, router *storage.Router, path string, data []byte, progress bool) error {
	loc, err := storage.ParseLocation(path)
	if err != nil {
		return err
	}

	var r io.Reader = bytes.NewReader(data)
	if progress {
		bar := newProgressBar(int64(len(data)), "writing "+path)
		defer bar.Finish() //nolint:errcheck
		r = io.TeeReader(r, bar)
	}

	if err := router.Write(ctx, loc, r); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func newProgressBar(size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// Execute runs the command and exits with status 1 on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
