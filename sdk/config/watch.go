// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchHostConfig re-reads the host config file through p whenever it
// changes, then calls onChange (if set) with the file name. The watch stops
// when ctx is done. A write that leaves the file unparsable is skipped; the
// next write is picked up as usual.
func WatchHostConfig(ctx context.Context, p *ViperPolicy, onChange func(name string)) error {
	used := p.v.ConfigFileUsed()
	if used == "" {
		return errors.New("no host config file to watch")
	}
	file, err := filepath.Abs(used)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// editors often replace the file, so watch its directory
	if err := w.Add(filepath.Dir(file)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(e.Name)
				if err != nil || name != file || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := p.ReadConfig(); err != nil {
					continue
				}
				if onChange != nil {
					onChange(e.Name)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
