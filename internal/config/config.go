package config

import (
	"fmt"
	"log/slog"
	"strings"

	"tico-dataset/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type StorageConfig struct {
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3PathStyle       bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	S3CreateBuckets   bool   `env:"S3_CREATE_BUCKETS" envDefault:"false"`
}

func (c StorageConfig) S3Client() storage.S3ClientConfig {
	return storage.S3ClientConfig{
		Endpoint:        c.S3EndpointURL,
		Region:          c.S3Region,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		PathStyle:       c.S3PathStyle,
		CreateBuckets:   c.S3CreateBuckets,
	}
}

type ExtractConfig struct {
	Input       string `env:"EXTRACT_INPUT" envDefault:"data/source_augmented.txt"`
	Output      string `env:"EXTRACT_OUTPUT" envDefault:"data/source_augmented.jsonl"`
	Format      string `env:"EXTRACT_FORMAT" envDefault:"chat"`
	FormatsFile string `env:"EXTRACT_FORMATS_FILE"`
	Progress    bool   `env:"PROGRESS" envDefault:"false"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Storage StorageConfig
}

type SplitConfig struct {
	Input      string  `env:"SPLIT_INPUT" envDefault:"data/source_augmented.jsonl"`
	Train      string  `env:"SPLIT_TRAIN" envDefault:"data/train.jsonl"`
	Valid      string  `env:"SPLIT_VALID" envDefault:"data/valid.jsonl"`
	Test       string  `env:"SPLIT_TEST" envDefault:"data/test.jsonl"`
	Eval       string  `env:"SPLIT_EVAL" envDefault:"data/eval.jsonl"`
	Manifest   string  `env:"SPLIT_MANIFEST" envDefault:"data/split_manifest.yaml"`
	TrainRatio float64 `env:"SPLIT_TRAIN_RATIO" envDefault:"0.8"`
	ValidRatio float64 `env:"SPLIT_VALID_RATIO" envDefault:"0.1"`
	Seed       int64   `env:"SPLIT_SEED" envDefault:"42"`
	Shuffle    string  `env:"SPLIT_SHUFFLE" envDefault:"mt19937"`
	Progress   bool    `env:"PROGRESS" envDefault:"false"`
	LogLevel   string  `env:"LOG_LEVEL" envDefault:"info"`

	Storage StorageConfig
}

// LoadEnvFile adds the variables of a dotenv file to the process
// environment. Variables that are already set keep their value.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	slog.Debug("loading env file", "path", path)
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading env file '%s': %w", path, err)
	}
	return nil
}

// Parse fills cfg from the environment, applying envDefault values for
// variables that are not set.
func Parse(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	return nil
}

func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
