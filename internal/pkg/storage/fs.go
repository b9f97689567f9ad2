// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// initFS opens an existing directory, a missing directory is an error
// since discovery never writes.
func initFS(_ context.Context, config FSStorageConfig) (*blob.Bucket, error) {
	info, err := os.Stat(config.Directory)
	if err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", config.Directory)
	}

	return fileblob.OpenBucket(config.Directory, nil)
}
