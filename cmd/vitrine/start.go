// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitrine-dev/vitrine/internal/config"
	"github.com/vitrine-dev/vitrine/internal/secrets"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the vitrine recommendation server",
		Long:  "Load configuration, open the catalog and embedding stores, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("networking.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()

	if viper.GetBool("verbose") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Resolve keyring:// URIs before unmarshalling so provider API keys
	// never need to live in the config file.
	secrets.ResolveViperSecrets(v, secrets.NewKeyringStore())

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	config.WarnInsecurePermissions(v.ConfigFileUsed())

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := WireService(ctx, cfg, dataDir)
	if err != nil {
		return vitrerr.Wrap(err, vitrerr.CodeCLISetupFailure, "wiring service")
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			slog.Warn("error during shutdown", "error", cerr)
		}
	}()

	slog.Info("starting vitrine",
		"listen", cfg.Networking.Listen,
		"backend", cfg.Storage.Backend,
		"provider", cfg.Embeddings.Provider,
		"data_dir", dataDir,
	)

	return svc.Start(ctx)
}
