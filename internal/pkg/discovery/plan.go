// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"fmt"
	"strings"

	v "github.com/RussellLuo/validating/v3"
	"go.ciq.dev/shortcuts/internal/pkg/storage"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

const DefaultShortcutPath = "Tables/"

type Config struct {
	ShortcutPath string `yaml:"shortcut-path"`
	TargetType   string `yaml:"target-type"`
	Location     string `yaml:"location"`
	Container    string `yaml:"container"`
	Bucket       string `yaml:"bucket"`
	ConnectionID string `yaml:"connection-id"`
}

// Planner turns discovered tables into shortcuts.
type Planner struct {
	Path         string
	TargetType   string
	Location     string
	Container    string
	Bucket       string
	ConnectionID string
}

// Planned is the shortcut planned for a table.
type Planned struct {
	Table    Table
	Shortcut fabric.Shortcut
}

// NewPlanner completes the discovery configuration with values derived
// from the storage the tables are listed from.
func NewPlanner(config Config, storageConfig storage.Config) (*Planner, error) {
	p := &Planner{
		Path:         config.ShortcutPath,
		TargetType:   config.TargetType,
		Location:     config.Location,
		Container:    config.Container,
		Bucket:       config.Bucket,
		ConnectionID: config.ConnectionID,
	}

	if p.Path == "" {
		p.Path = DefaultShortcutPath
	}
	if p.TargetType == "" {
		p.TargetType = defaultTargetType(storageConfig)
	}

	switch storageConfig.Driver {
	case storage.AzureStorageDriver:
		if p.Location == "" {
			p.Location = adlsLocation(storageConfig.Azure)
		}
		if p.Container == "" {
			p.Container = storageConfig.Azure.Container
		}
	case storage.S3StorageDriver:
		if p.Bucket == "" {
			p.Bucket = storageConfig.S3.Bucket
		}
		if p.Location == "" {
			p.Location = s3Location(p.TargetType, storageConfig.S3)
		}
	case storage.GCSStorageDriver:
		if p.Location == "" {
			p.Location = "https://" + storageConfig.GCS.Bucket + ".storage.googleapis.com"
		}
	}

	schema := v.Schema{
		v.F("target-type", p.TargetType): v.In(
			fabric.TargetAdlsGen2,
			fabric.TargetAmazonS3,
			fabric.TargetGoogleCloudStorage,
			fabric.TargetS3Compatible,
		).Msg("is not an external storage type"),
		v.F("location", p.Location):          v.Nonzero[string]().Msg("is missing"),
		v.F("connection-id", p.ConnectionID): v.Nonzero[string]().Msg("is missing"),
	}
	if p.TargetType == fabric.TargetS3Compatible {
		schema[v.F("bucket", p.Bucket)] = v.Nonzero[string]().Msg("is missing")
	}
	if errs := v.Validate(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid discovery configuration: %s", errs.Error())
	}

	return p, nil
}

// Plan returns one shortcut per table, named {schema}_{table} and
// targeting /{container}/{schema}/{table}.
func (p *Planner) Plan(tables []Table) ([]Planned, error) {
	planned := make([]Planned, 0, len(tables))

	for _, table := range tables {
		target, err := fabric.NewTarget(p.TargetType, p.Location, p.Bucket, table.Subpath(p.Container), p.ConnectionID)
		if err != nil {
			return nil, err
		}

		planned = append(planned, Planned{
			Table: table,
			Shortcut: fabric.Shortcut{
				Path:   p.Path,
				Name:   table.ShortcutName(),
				Target: target,
			},
		})
	}

	return planned, nil
}

func defaultTargetType(config storage.Config) string {
	switch config.Driver {
	case storage.S3StorageDriver:
		if config.S3.Endpoint != "" {
			return fabric.TargetS3Compatible
		}
		return fabric.TargetAmazonS3
	case storage.GCSStorageDriver:
		return fabric.TargetGoogleCloudStorage
	}
	return fabric.TargetAdlsGen2
}

func adlsLocation(config storage.AzureStorageConfig) string {
	domain := "dfs.core.windows.net"
	if config.StorageDomain != "" {
		domain = "dfs." + strings.TrimPrefix(config.StorageDomain, "blob.")
	}
	return "https://" + config.AccountName + "." + domain
}

func s3Location(targetType string, config storage.S3StorageConfig) string {
	if targetType == fabric.TargetS3Compatible {
		endpoint := config.Endpoint
		if !strings.Contains(endpoint, "://") {
			scheme := "https://"
			if config.DisableSSL {
				scheme = "http://"
			}
			endpoint = scheme + endpoint
		}
		return strings.TrimSuffix(endpoint, "/")
	}

	region := config.Region
	if region == "" {
		region = "us-east-1"
	}
	return "https://" + config.Bucket + ".s3." + region + ".amazonaws.com"
}
