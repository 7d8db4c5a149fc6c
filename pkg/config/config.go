package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const DefaultTrainingQuery = `SELECT text, party FROM conventions WHERE party IN ('Democratic', 'Republican')`

const DefaultEvaluationQuery = `SELECT DISTINCT tw.tweet_text, cd.party
	FROM candidate_data cd
	INNER JOIN tweets tw ON cd.twitter_handle = tw.handle
		AND cd.candidate = tw.candidate
		AND cd.district = tw.district
	WHERE cd.party IN ('Republican', 'Democratic')
		AND tw.tweet_text NOT GLOB '*RT @*'`

type Config struct {
	SQLite     SQLiteConfig
	Sources    SourcesConfig
	Normalizer NormalizerConfig
	Cleaning   CleaningConfig
	Vocabulary VocabularyConfig
	Evaluation EvaluationConfig
	Metrics    MetricsConfig
	Retry      RetryConfig
	Logging    LoggingConfig
}

type SQLiteConfig struct {
	Path string
}

type SourcesConfig struct {
	Training   SourceConfig
	Evaluation SourceConfig
}

type SourceConfig struct {
	Query string
}

type NormalizerConfig struct {
	Retain []string
}

type CleaningConfig struct {
	Escapes []EscapeConfig
}

type EscapeConfig struct {
	From string
	To   string
}

type VocabularyConfig struct {
	Cutoff int
}

type EvaluationConfig struct {
	SampleSize          int
	Seed                int64
	InformativeFeatures int
}

type MetricsConfig struct {
	Textfile string
}

type RetryConfig struct {
	MaxAttempts    int
	InitialDelayMs int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

// Load reads configuration from configFile when set, otherwise from config.yaml
// in the usual search paths. A missing default file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/partylines")
	}

	v.SetEnvPrefix("PARTYLINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required")
	}
	if c.Vocabulary.Cutoff < 0 {
		return fmt.Errorf("vocabulary.cutoff must not be negative, got %d", c.Vocabulary.Cutoff)
	}
	if c.Evaluation.SampleSize < 0 {
		return fmt.Errorf("evaluation.sampleSize must not be negative, got %d", c.Evaluation.SampleSize)
	}
	for i, e := range c.Cleaning.Escapes {
		if e.From == "" {
			return fmt.Errorf("cleaning.escapes[%d].from is empty", i)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sqlite.path", "./data/partylines.db")

	v.SetDefault("sources.training.query", DefaultTrainingQuery)
	v.SetDefault("sources.evaluation.query", DefaultEvaluationQuery)

	v.SetDefault("normalizer.retain", []string{"about"})

	v.SetDefault("vocabulary.cutoff", 5)

	v.SetDefault("evaluation.sampleSize", 10)
	v.SetDefault("evaluation.seed", 42)
	v.SetDefault("evaluation.informativeFeatures", 25)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("retry.maxAttempts", 3)
	v.SetDefault("retry.initialDelayMs", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputPath", "stderr")
}
