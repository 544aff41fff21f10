// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// ReloadSettings applies a settings change. A nil hook, or one addressed to
// this plugin without an inline update, re-reads the settings source.
func (s *UploadService) ReloadSettings(ctx context.Context, hook *SettingsHook) error {
	if hook != nil && hook.Plugin != "" && hook.Plugin != utils.PluginKey {
		return nil
	}

	if hook != nil && hook.Update != nil {
		s.settings.Reload(*hook.Update)
		s.log.Info("settings reloaded", zap.String("from", "hook"))
		return nil
	}

	if s.source == nil {
		return nil
	}
	update, err := s.source.GetSettings(ctx, utils.PluginKey)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	s.settings.Reload(update)
	s.log.Info("settings reloaded", zap.String("from", "source"))
	return nil
}
