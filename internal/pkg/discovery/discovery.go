// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gocloud.dev/blob"
)

// Table is a table folder found under a schema folder of the gold layer.
type Table struct {
	Schema string
	Name   string
}

func (t Table) String() string {
	return t.Schema + "." + t.Name
}

// ShortcutName returns the name of the shortcut exposing the table.
func (t Table) ShortcutName() string {
	return t.Schema + "_" + t.Name
}

// Subpath returns the target subpath of the table inside container.
func (t Table) Subpath(container string) string {
	container = strings.Trim(container, "/")
	if container == "" {
		return "/" + t.Schema + "/" + t.Name
	}
	return "/" + container + "/" + t.Schema + "/" + t.Name
}

// ListFolders returns the names of the folders directly under prefix.
// A listing failure is logged and yields no folder.
func ListFolders(ctx context.Context, bucket *blob.Bucket, prefix string, logger *slog.Logger) []string {
	folders := []string{}

	iter := bucket.List(&blob.ListOptions{
		Prefix:    prefix,
		Delimiter: "/",
	})

	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			logger.Error("error listing folders", "path", prefix, "error", err)
			return []string{}
		}

		if !obj.IsDir {
			continue
		}

		name := strings.Trim(strings.TrimPrefix(obj.Key, prefix), "/")
		if name != "" {
			folders = append(folders, name)
		}
	}

	return folders
}

// Tables walks the schema folders under base and the table folders
// under each schema, in listing order.
func Tables(ctx context.Context, bucket *blob.Bucket, base string, logger *slog.Logger) []Table {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var tables []Table

	for _, schema := range ListFolders(ctx, bucket, base, logger) {
		schemaPath := base + schema + "/"

		for _, name := range ListFolders(ctx, bucket, schemaPath, logger) {
			tables = append(tables, Table{
				Schema: schema,
				Name:   name,
			})
		}

		logger.Debug("schema listed", "schema", schema, "path", schemaPath)
	}

	return tables
}
