// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/s3blob"
)

func newS3Session(config S3StorageConfig) (*session.Session, error) {
	awsConfig := &aws.Config{
		DisableSSL: aws.Bool(config.DisableSSL),
	}

	// custom endpoints are usually S3 compatible stores without
	// virtual hosted buckets
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if config.Region != "" {
		awsConfig.Region = aws.String(config.Region)
	}
	if config.AccessKeyID != "" || config.SecretAccessKey != "" || config.SessionToken != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			config.AccessKeyID,
			config.SecretAccessKey,
			config.SessionToken,
		)
	}

	return session.NewSession(awsConfig)
}

func initS3(ctx context.Context, config S3StorageConfig) (*blob.Bucket, error) {
	sess, err := newS3Session(config)
	if err != nil {
		return nil, err
	}

	return s3blob.OpenBucket(ctx, sess, config.Bucket, nil)
}
