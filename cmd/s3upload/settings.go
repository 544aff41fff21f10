// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/services/upload"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

func newSettingsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the upload target",
	}
	cmd.AddCommand(newSettingsShowCommand(c))
	cmd.AddCommand(newSettingsSetCommand(c))
	cmd.AddCommand(newSettingsReloadCommand(c))
	return cmd
}

func (c *cli) printSettings(cmd *cobra.Command) error {
	out, err := yaml.Marshal(c.svc.Settings().Masked())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func newSettingsShowCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active settings, secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printSettings(cmd)
		},
	}
}

func newSettingsSetCommand(c *cli) *cobra.Command {
	var s config.Settings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist settings to the INI file; empty flags keep the stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s == (config.Settings{}) {
				return fmt.Errorf("nothing to set")
			}
			if err := c.source.SaveSettings(utils.PluginKey, s); err != nil {
				return err
			}
			if err := c.svc.ReloadSettings(cmd.Context(), nil); err != nil {
				return err
			}
			return c.printSettings(cmd)
		},
	}
	cmd.Flags().StringVar(&s.AccessKeyID, "access-key-id", "", "AWS access key id")
	cmd.Flags().StringVar(&s.SecretAccessKey, "secret-access-key", "", "AWS secret access key")
	cmd.Flags().StringVar(&s.Region, "region", "", "AWS region")
	cmd.Flags().StringVar(&s.Bucket, "bucket", "", "target bucket")
	cmd.Flags().StringVar(&s.UploadPath, "upload-path", "", "key prefix inside the bucket")
	cmd.Flags().StringVar(&s.Host, "host", "", "public host used in returned URLs")
	return cmd
}

func newSettingsReloadCommand(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Re-read the INI file, or apply and persist a YAML/JSON update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				if err := c.svc.ReloadSettings(cmd.Context(), nil); err != nil {
					return err
				}
				return c.printSettings(cmd)
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			update, err := config.ParseSettingsUpdate(data)
			if err != nil {
				return err
			}
			if update.Plugin != "" && update.Plugin != utils.PluginKey {
				c.log.Debug("settings update for another plugin ignored", zap.String("plugin", update.Plugin))
				return c.printSettings(cmd)
			}

			hook := &upload.SettingsHook{Plugin: update.Plugin, Update: &update}
			if err := c.svc.ReloadSettings(cmd.Context(), hook); err != nil {
				return err
			}
			// only the update is stored; env and host config values stay off disk
			if err := c.source.SaveSettings(utils.PluginKey, update.Settings); err != nil {
				return err
			}
			return c.printSettings(cmd)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "settings update file (yaml or json)")
	return cmd
}
