// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/gcp"
	"golang.org/x/oauth2/google"
	storagev1 "google.golang.org/api/storage/v1"
)

func initGCS(ctx context.Context, config GCSStorageConfig) (*blob.Bucket, error) {
	var (
		creds *google.Credentials
		err   error
	)

	// listing only needs read access
	if config.Keyfile != "" {
		data, err := os.ReadFile(config.Keyfile)
		if err != nil {
			return nil, err
		}
		creds, err = google.CredentialsFromJSON(ctx, data, storagev1.DevstorageReadOnlyScope)
		if err != nil {
			return nil, fmt.Errorf("while loading %s: %w", config.Keyfile, err)
		}
	} else {
		creds, err = google.FindDefaultCredentials(ctx, storagev1.DevstorageReadOnlyScope)
		if err != nil {
			return nil, err
		}
	}

	client, err := gcp.NewHTTPClient(
		gcp.DefaultTransport(),
		gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}

	return gcsblob.OpenBucket(ctx, client, config.Bucket, nil)
}
