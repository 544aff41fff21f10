// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/http"
	"time"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// NewFetchClient returns the client used to download remote images.
func NewFetchClient(cfg FetchConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = utils.DefaultFetchTimeoutSeconds * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}

// FetchLimit is the response cap for remote fetches.
func (cfg FetchConfig) FetchLimit() int64 {
	if cfg.MaxBytes <= 0 {
		return utils.DefaultFetchMaxBytes
	}
	return cfg.MaxBytes
}
