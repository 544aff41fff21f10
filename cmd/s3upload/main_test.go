// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/services/upload"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, env := range []string{
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_DEFAULT_REGION",
		"S3_UPLOADS_BUCKET", "S3_UPLOADS_PATH", "S3_UPLOADS_HOST",
		"S3_UPLOADS_MAXIMUM_FILE_SIZE", "S3_UPLOADS_ALLOWED_EXTENSIONS",
	} {
		t.Setenv(env, "")
	}
	return filepath.Join(dir, "settings.ini")
}

func TestSettingsSetAndShow(t *testing.T) {
	ini := isolate(t)

	out, err := run(t, "settings", "set", "--ini", ini, "--bucket", "assets", "--access-key-id", "AKIAEXAMPLE")
	require.NoError(t, err)
	require.Contains(t, out, "bucket: assets")
	require.Contains(t, out, "accessKeyId: AKIA*******")

	out, err = run(t, "settings", "show", "--ini", ini)
	require.NoError(t, err)
	require.Contains(t, out, "bucket: assets")
	require.NotContains(t, out, "AKIAEXAMPLE")

	_, err = run(t, "settings", "set", "--ini", ini)
	require.Error(t, err)
}

func TestSettingsReloadFromFile(t *testing.T) {
	ini := isolate(t)
	_, err := run(t, "settings", "set", "--ini", ini, "--bucket", "assets")
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("plugin: another-plugin\nbucket: hijacked\n"), 0o600))
	out, err := run(t, "settings", "reload", "--ini", ini, "-f", other)
	require.NoError(t, err)
	require.Contains(t, out, "bucket: assets")

	mine := filepath.Join(t.TempDir(), "mine.json")
	require.NoError(t, os.WriteFile(mine, []byte(`{"plugin":"s3-uploads","uploadPath":"/media"}`), 0o600))
	out, err = run(t, "settings", "reload", "--ini", ini, "-f", mine)
	require.NoError(t, err)
	require.Contains(t, out, "bucket: assets")
	require.Contains(t, out, "uploadPath: /media")

	// persisted for the next run
	out, err = run(t, "settings", "show", "--ini", ini)
	require.NoError(t, err)
	require.Contains(t, out, "uploadPath: /media")
}

func TestSettingsReloadOtherPluginLeavesIniAlone(t *testing.T) {
	ini := isolate(t)
	_, err := run(t, "settings", "set", "--ini", ini, "--bucket", "assets")
	require.NoError(t, err)
	before, err := os.ReadFile(ini)
	require.NoError(t, err)

	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret-value")
	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("plugin: another-plugin\nbucket: hijacked\n"), 0o600))

	_, err = run(t, "settings", "reload", "--ini", ini, "-f", other)
	require.NoError(t, err)

	after, err := os.ReadFile(ini)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestSettingsReloadStoresOnlyTheUpdate(t *testing.T) {
	ini := isolate(t)
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret-value")

	mine := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(mine, []byte("plugin: s3-uploads\nbucket: assets\n"), 0o600))
	_, err := run(t, "settings", "reload", "--ini", ini, "-f", mine)
	require.NoError(t, err)

	data, err := os.ReadFile(ini)
	require.NoError(t, err)
	require.Contains(t, string(data), "assets")
	require.NotContains(t, string(data), "env-secret-value")
}

func TestHostConfigChangeKeepsIniValues(t *testing.T) {
	ini := isolate(t)
	_, err := run(t, "settings", "set", "--ini", ini, "--bucket", "from-ini")
	require.NoError(t, err)

	host := filepath.Join(t.TempDir(), "host.yaml")
	require.NoError(t, os.WriteFile(host, []byte("bucket: from-config\nhost: cdn.example.com\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &cli{configPath: host, iniPath: ini}
	require.NoError(t, c.initialize(ctx))
	require.Equal(t, "from-ini", c.svc.Settings().Bucket)

	require.NoError(t, os.WriteFile(host, []byte("bucket: changed\nhost: cdn2.example.com\n"), 0o600))
	require.NoError(t, c.policy.ReadConfig())
	c.applyHostConfig(ctx)

	got := c.svc.Settings()
	require.Equal(t, "from-ini", got.Bucket)
	require.Equal(t, "cdn2.example.com", got.Host)
}

func TestFileDryRun(t *testing.T) {
	ini := isolate(t)
	t.Setenv("S3_UPLOADS_ALLOWED_EXTENSIONS", "png,jpg")
	_, err := run(t, "settings", "set", "--ini", ini, "--bucket", "assets", "--upload-path", "/uploads")
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte{1}, 500), 0o600))

	out, err := run(t, "file", "--ini", ini, "--dry-run", "--folder", "docs", p)
	require.NoError(t, err)

	var res upload.UploadResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "photo.png", res.Name)
	require.True(t, strings.HasPrefix(res.URL, "https://assets/uploads/docs/"), res.URL)
	require.True(t, strings.HasSuffix(res.URL, ".png"), res.URL)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o600))
	_, err = run(t, "file", "--ini", ini, "--dry-run", txt)
	require.Equal(t, uperrors.KindDisallowedExtension, uperrors.KindOf(err))
}

func TestFileTooLargeFromEnv(t *testing.T) {
	ini := isolate(t)
	t.Setenv("S3_UPLOADS_MAXIMUM_FILE_SIZE", "1")

	p := filepath.Join(t.TempDir(), "big.bin")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte{1}, 2048), 0o600))

	_, err := run(t, "file", "--ini", ini, "--dry-run", p)
	require.Equal(t, uperrors.KindFileTooLarge, uperrors.KindOf(err))
}

func TestHostConfigFile(t *testing.T) {
	ini := isolate(t)
	host := filepath.Join(t.TempDir(), "host.yaml")
	require.NoError(t, os.WriteFile(host, []byte("bucket: from-config\nhost: cdn.example.com\n"), 0o600))

	out, err := run(t, "settings", "show", "--ini", ini, "--config", host)
	require.NoError(t, err)
	require.Contains(t, out, "bucket: from-config")
	require.Contains(t, out, "host: cdn.example.com")
}
