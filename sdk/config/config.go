// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Config is everything the SDK needs at construction (no viper/INI here).
type Config struct {
	Settings Settings
	S3       S3Config
	Fetch    FetchConfig
}

type S3Config struct {
	// EndpointURL targets an S3-compatible service instead of AWS.
	EndpointURL string
	// ClientCacheSize bounds the number of clients kept per settings version.
	ClientCacheSize int
}

type FetchConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}
