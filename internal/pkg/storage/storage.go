// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
)

// GetPrefix normalizes the configured prefix to the "a/b/" form
// expected by prefixed buckets, the root prefix is empty.
func GetPrefix(config Config) string {
	return NormalizePrefix(config.Prefix)
}

func NormalizePrefix(prefix string) string {
	for len(prefix) > 0 && prefix[0] == '/' {
		prefix = prefix[1:]
	}
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return prefix
}

// Init opens the bucket of the configured driver, scoped to prefix.
func Init(ctx context.Context, config Config, prefix string) (*blob.Bucket, error) {
	var (
		bucket *blob.Bucket
		err    error
	)

	switch config.Driver {
	case S3StorageDriver:
		bucket, err = initS3(ctx, config.S3)
	case FSStorageDriver:
		bucket, err = initFS(ctx, config.Filesystem)
	case GCSStorageDriver:
		bucket, err = initGCS(ctx, config.GCS)
	case AzureStorageDriver:
		bucket, err = initAzure(ctx, config.Azure)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", config.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("while opening %s storage: %w", config.Driver, err)
	}

	if prefix = NormalizePrefix(prefix); prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}

	return bucket, nil
}
