// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitrine-dev/vitrine/internal/config"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// NewRootCmd creates the root vitrine command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vitrine",
		Short:         "Vitrine, a product similarity recommendation service",
		Long:          "Vitrine serves \"similar products\" recommendations for a storefront catalog, backed by text embeddings and vector search.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags, mapped to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("data-dir", "", "path to data directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newStartCmd(),
		newIndexCmd(),
		newSecretCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return vitrerr.Errorf(vitrerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover vitrine.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./vitrine binary in the project root.
		v.SetConfigName("vitrine")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vitrine")
		v.AddConfigPath("/etc/vitrine")
		// No config file is fine; defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return vitrerr.Errorf(vitrerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
			// No config found anywhere: bootstrap a default to ~/.config/vitrine/.
			if path := config.BootstrapConfig(); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return vitrerr.Errorf(vitrerr.CodeConfigLoadReadFailure, "reading bootstrapped config: %w", err)
				}
			}
		}
	}

	// Bind persistent flags to viper keys.
	if err := v.BindPFlag("data_dir", cmd.Root().PersistentFlags().Lookup("data-dir")); err != nil {
		return vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "binding data-dir flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	return nil
}

// resolveDataDir picks the data directory: the data_dir viper key (flag or
// env), then storage.path from config, then ~/.local/share/vitrine.
func resolveDataDir() (string, error) {
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir, nil
	}
	if dir := viper.GetString("storage.path"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "vitrine"), nil
}
