// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"io"
	"net/http"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
)

// FetchRemote downloads url into memory with a single GET. Non-2xx responses
// fail with FetchFailedError carrying the status; limit <= 0 reads unbounded.
func FetchRemote(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &uperrors.FetchFailedError{URL: url, Cause: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &uperrors.FetchFailedError{URL: url, Cause: err}
	}
	defer func(Body io.ReadCloser) { _ = Body.Close() }(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &uperrors.FetchFailedError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := readAllWithLimit(resp.Body, limit)
	if err != nil {
		return nil, &uperrors.FetchFailedError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}
	return data, nil
}

func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, uperrors.ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}
