// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// Config is the top-level Vitrine configuration.
type Config struct {
	Networking NetworkingConfig          `mapstructure:"networking"`
	Storage    StorageConfig             `mapstructure:"storage"`
	Embeddings EmbeddingsConfig          `mapstructure:"embeddings"`
	Providers  map[string]ProviderConfig `mapstructure:"providers"`
	Recommend  RecommendConfig           `mapstructure:"recommend"`
}

// NetworkingConfig controls how Vitrine listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the storage backend and data location.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// EmbeddingsConfig selects the embedding provider and vector shape.
// Catalog and query vectors must come from the same provider, model, and
// dimensionality, or distances are meaningless.
type EmbeddingsConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// ProviderConfig holds credentials and endpoint for an embedding provider.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// RecommendConfig tunes the similarity query.
type RecommendConfig struct {
	DefaultK      int           `mapstructure:"default_k"`
	MaxK          int           `mapstructure:"max_k"`
	MinSimilarity float64       `mapstructure:"min_similarity"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SetDefaults installs default values on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:18790")
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "")
	v.SetDefault("embeddings.provider", "openai")
	v.SetDefault("embeddings.dimensions", 1536)
	v.SetDefault("recommend.default_k", 4)
	v.SetDefault("recommend.max_k", 20)
	v.SetDefault("recommend.min_similarity", 0.5)
	v.SetDefault("recommend.timeout", "3s")
}

// SetupEnv binds VITRINE_-prefixed environment variables on a Viper instance.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("VITRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix VITRINE_).
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, vitrerr.Errorf(vitrerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config from an already prepared Viper
// instance. Used by the CLI, where flag and env bindings live on the global
// Viper and secrets have been resolved in place.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns all
// validation errors found rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNetworking()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateEmbeddings()...)
	errs = append(errs, c.validateRecommend()...)

	return errs
}

func (c *Config) validateNetworking() []error {
	var errs []error

	if c.Networking.Listen == "" {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue, "config: networking.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: networking.listen must be a valid host:port address, got %q: %w",
			c.Networking.Listen, err,
		))
		return errs
	}

	// Host can be empty (e.g. ":8080"), which is valid. Port 0 is also
	// valid: the listener binds an ephemeral port.
	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be a number, got %q", portStr))
	} else if port < 0 || port > 65535 {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be between 0 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"sqlite": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [sqlite], got %q",
			c.Storage.Backend,
		))
	}

	return errs
}

func (c *Config) validateEmbeddings() []error {
	var errs []error

	validProviders := map[string]bool{"openai": true, "google": true}
	if !validProviders[c.Embeddings.Provider] {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: embeddings.provider must be one of [openai, google], got %q",
			c.Embeddings.Provider,
		))
	} else if c.Providers != nil {
		// Only cross-reference providers when the providers section exists
		// in config. A nil map means no providers section was configured,
		// which is valid when the key comes from the environment.
		if _, ok := c.Providers[c.Embeddings.Provider]; !ok {
			errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
				"config: embeddings.provider %q has no entry under providers",
				c.Embeddings.Provider,
			))
		}
	}

	if c.Embeddings.Dimensions <= 0 {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: embeddings.dimensions must be greater than 0, got %d",
			c.Embeddings.Dimensions,
		))
	}

	return errs
}

func (c *Config) validateRecommend() []error {
	var errs []error

	if c.Recommend.DefaultK <= 0 {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: recommend.default_k must be greater than 0, got %d",
			c.Recommend.DefaultK,
		))
	}

	if c.Recommend.MaxK < c.Recommend.DefaultK {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: recommend.max_k must be at least recommend.default_k, got %d < %d",
			c.Recommend.MaxK, c.Recommend.DefaultK,
		))
	}

	if c.Recommend.MinSimilarity < -1 || c.Recommend.MinSimilarity > 1 {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: recommend.min_similarity must be within [-1, 1], got %g",
			c.Recommend.MinSimilarity,
		))
	}

	if c.Recommend.Timeout <= 0 {
		errs = append(errs, vitrerr.Errorf(vitrerr.CodeConfigValidateInvalidValue,
			"config: recommend.timeout must be greater than 0, got %s",
			c.Recommend.Timeout,
		))
	}

	return errs
}
