// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
)

const OneLakeStorageDomain = "blob.fabric.microsoft.com"

// ContainerURL returns the blob endpoint URL of the configured container.
func ContainerURL(config AzureStorageConfig) (string, error) {
	options := azureblob.NewDefaultServiceURLOptions()
	options.AccountName = config.AccountName
	if config.StorageDomain != "" {
		options.StorageDomain = config.StorageDomain
	}

	serviceURL, err := azureblob.NewServiceURL(options)
	if err != nil {
		return "", err
	}

	return runtime.JoinPaths(string(serviceURL), config.Container), nil
}

func initAzure(ctx context.Context, config AzureStorageConfig) (*blob.Bucket, error) {
	if config.AccountName == "" {
		return nil, fmt.Errorf("azure account name is missing")
	} else if config.Container == "" {
		return nil, fmt.Errorf("azure container is missing")
	}

	containerURL, err := ContainerURL(config)
	if err != nil {
		return nil, err
	}

	azClientOpts := &container.ClientOptions{}
	azClientOpts.Telemetry = policy.TelemetryOptions{
		ApplicationID: "shortcutctl",
	}

	var containerClient *container.Client

	if config.AccountKey != "" {
		sharedKeyCred, err := azblob.NewSharedKeyCredential(config.AccountName, config.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed azblob.NewSharedKeyCredential: %w", err)
		}
		containerClient, err = container.NewClientWithSharedKeyCredential(containerURL, sharedKeyCred, azClientOpts)
		if err != nil {
			return nil, err
		}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed azidentity.NewDefaultAzureCredential: %w", err)
		}
		containerClient, err = container.NewClient(containerURL, cred, azClientOpts)
		if err != nil {
			return nil, err
		}
	}

	return azureblob.OpenBucket(ctx, containerClient, nil)
}

// OneLakeAccountName is the account serving every OneLake workspace.
const OneLakeAccountName = "onelake"

// OneLake returns the configuration of the OneLake container of a
// workspace, items are folders at the root of the container.
func OneLake(workspaceID string) Config {
	return Config{
		Driver: AzureStorageDriver,
		Azure: AzureStorageConfig{
			AccountName:   OneLakeAccountName,
			Container:     workspaceID,
			StorageDomain: OneLakeStorageDomain,
		},
	}
}
