// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/metrics"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/services/upload"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/storage"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/storage/memory"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// cliKeys are the CLI-only keys of the host config.
type cliKeys struct {
	S3Endpoint    string `vkey:"s3_endpoint"     env:"S3_UPLOADS_ENDPOINT"`
	FetchTimeout  string `vkey:"fetch_timeout"   env:"S3_UPLOADS_FETCH_TIMEOUT"   default:"30s"`
	FetchMaxBytes string `vkey:"fetch_max_bytes" env:"S3_UPLOADS_FETCH_MAX_BYTES"`
}

type cli struct {
	configPath string
	iniPath    string
	verbose    bool
	dryRun     bool

	log    *zap.Logger
	v      *viper.Viper
	policy *config.ViperPolicy
	source *config.IniSettingsSource
	store  *memory.Store
	svc    *upload.UploadService
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "s3upload",
		Short:        "Upload files and images to an S3 bucket",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initialize(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "host config file (yaml, json or toml), watched for changes")
	root.PersistentFlags().StringVar(&c.iniPath, "ini", "", "settings INI file (default ~/.s3uploads.ini)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().BoolVar(&c.dryRun, "dry-run", false, "keep uploads in memory instead of S3")

	root.AddCommand(newFileCommand(c))
	root.AddCommand(newImageCommand(c))
	root.AddCommand(newSettingsCommand(c))
	return root
}

func (c *cli) initialize(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	if c.verbose {
		c.log, err = zap.NewDevelopment()
	} else {
		c.log, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	c.v, err = config.LoadHostConfig(c.configPath)
	if err != nil {
		return err
	}
	config.BindEnvFromStruct(c.v, cliKeys{})
	c.policy = config.NewViperPolicy(c.v)
	c.source = config.NewIniSettingsSource(c.iniPath)

	recorder, err := metrics.NewRecorder(nil)
	if err != nil {
		return err
	}

	opts := []upload.Option{
		upload.WithLogger(c.log),
		upload.WithPolicy(c.policy),
		upload.WithSettingsSource(c.source),
		upload.WithMetrics(recorder),
	}
	if c.dryRun {
		c.store = memory.NewInMemory()
		opts = append(opts, upload.WithStoreFactory(func(context.Context, config.Settings) (storage.ObjectStore, error) {
			return c.store, nil
		}))
	}

	conf := config.Config{
		Settings: config.SettingsFromViper(c.v).Settings,
		S3:       config.S3Config{EndpointURL: c.v.GetString("s3_endpoint")},
		Fetch: config.FetchConfig{
			Timeout:  c.v.GetDuration("fetch_timeout"),
			MaxBytes: c.v.GetInt64("fetch_max_bytes"),
		},
	}
	c.svc, err = upload.NewUploadService(ctx, conf, opts...)
	if err != nil {
		return err
	}

	if c.configPath != "" {
		if err := config.WatchHostConfig(ctx, c.policy, func(name string) {
			c.log.Info("host config changed", zap.String("file", name))
			c.applyHostConfig(ctx)
		}); err != nil {
			return err
		}
	}
	return nil
}

// applyHostConfig pushes the host config settings with the INI section
// overlaid, so stored settings keep precedence as they do at startup.
func (c *cli) applyHostConfig(ctx context.Context) {
	update := c.policy.Settings()
	stored, err := c.source.GetSettings(ctx, utils.PluginKey)
	if err != nil {
		c.log.Warn("settings reload failed", zap.Error(err))
		return
	}
	update.Settings = update.Settings.Overlay(stored.Settings)
	if err := c.svc.ReloadSettings(ctx, &upload.SettingsHook{Update: &update}); err != nil {
		c.log.Warn("settings reload failed", zap.Error(err))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
