// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.ciq.dev/shortcuts/internal/pkg/auth"
	"go.ciq.dev/shortcuts/internal/pkg/shortcut"
	"go.ciq.dev/shortcuts/pkg/fabric"
	"go.ciq.dev/shortcuts/pkg/fabric/fabrictest"
	"gocloud.dev/blob/fileblob"
)

const (
	workspaceID = "6e335e92-a2a2-4b5a-970a-bd6a89fbb765"
	itemID      = "2a4b8d1e-0c0b-4c1f-9a54-7f3a9ad3bb21"
)

func newManager(t *testing.T, srv *fabrictest.Server, opts ...shortcut.Option) *shortcut.Manager {
	client, err := fabric.New(srv.URL, auth.Static("secret"))
	require.NoError(t, err)

	return shortcut.NewManager(client, workspaceID, itemID, opts...)
}

func newShortcut(name string) fabric.Shortcut {
	return fabric.Shortcut{
		Path: "Tables/",
		Name: name,
		Target: fabric.Target{
			AdlsGen2: &fabric.ExternalTarget{
				Location:     "https://contoso.dfs.core.windows.net",
				Subpath:      "/gold/sales/" + name,
				ConnectionID: "91324db9-8dc4-4730-a1e5-bafabf1fb91e",
			},
		},
	}
}

func countRequests(srv *fabrictest.Server, method string) int {
	count := 0
	for _, req := range srv.Requests() {
		if req.Method == method {
			count++
		}
	}
	return count
}

func TestManager(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithToken("secret"))
	defer srv.Close()

	ctx := context.Background()
	m := newManager(t, srv)

	result, err := m.Create(ctx, newShortcut("sales_orders"))
	require.NoError(t, err)
	require.True(t, result.Success())
	require.Equal(t, http.StatusCreated, result.StatusCode)

	result, err = m.Create(ctx, newShortcut("sales_orders"))
	require.NoError(t, err)
	require.False(t, result.Success())
	require.Equal(t, http.StatusConflict, result.StatusCode)

	result, err = m.Get(ctx, "Tables", "sales_orders")
	require.NoError(t, err)
	require.True(t, result.Success())

	shortcuts, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, shortcuts, 1)

	result, err = m.Delete(ctx, "Tables", "sales_orders")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StatusCode)

	result, err = m.Get(ctx, "Tables", "sales_orders")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestManagerConflictPolicy(t *testing.T) {
	srv := fabrictest.NewServer()
	defer srv.Close()

	srv.Put(workspaceID, itemID, newShortcut("sales_orders"))

	m := newManager(t, srv, shortcut.WithConflictPolicy(fabric.ConflictGenerateUniqueName))

	result, err := m.Create(context.Background(), newShortcut("sales_orders"))
	require.NoError(t, err)
	require.True(t, result.Success())

	created := new(fabric.Shortcut)
	require.NoError(t, result.Decode(created))
	require.Equal(t, "sales_orders_1", created.Name)
}

func TestDeleteWaitsForPropagation(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithDeletePropagation(3))
	defer srv.Close()

	srv.Put(workspaceID, itemID, newShortcut("sales_orders"))

	m := newManager(t, srv, shortcut.WithDeleteWait(true, time.Millisecond, time.Minute))

	result, err := m.Delete(context.Background(), "Tables", "sales_orders")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StatusCode)

	// three stale reads then the one reporting the shortcut as gone
	require.Equal(t, 4, countRequests(srv, http.MethodGet))
}

func TestDeleteWaitTimeout(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithDeletePropagation(1 << 20))
	defer srv.Close()

	srv.Put(workspaceID, itemID, newShortcut("sales_orders"))

	m := newManager(t, srv, shortcut.WithDeleteWait(true, 5*time.Millisecond, 50*time.Millisecond))

	result, err := m.Delete(context.Background(), "Tables", "sales_orders")
	require.ErrorIs(t, err, shortcut.ErrDeletePropagationTimeout)
	require.NotNil(t, result)
	require.Equal(t, http.StatusOK, result.StatusCode)
}

func TestDeleteWithoutWait(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithDeletePropagation(3))
	defer srv.Close()

	srv.Put(workspaceID, itemID, newShortcut("sales_orders"))

	m := newManager(t, srv, shortcut.WithDeleteWait(false, 0, 0))

	result, err := m.Delete(context.Background(), "Tables", "sales_orders")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StatusCode)
	require.Zero(t, countRequests(srv, http.MethodGet))
}

func TestDeleteMissingDoesNotWait(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithDeletePropagation(3))
	defer srv.Close()

	m := newManager(t, srv, shortcut.WithDeleteWait(true, time.Millisecond, time.Minute))

	result, err := m.Delete(context.Background(), "Tables", "sales_orders")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, result.StatusCode)
	require.Zero(t, countRequests(srv, http.MethodGet))
}

func TestDeleteCanceled(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithDeletePropagation(1 << 20))
	defer srv.Close()

	srv.Put(workspaceID, itemID, newShortcut("sales_orders"))

	m := newManager(t, srv, shortcut.WithDeleteWait(true, 5*time.Millisecond, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := m.Delete(ctx, "Tables", "sales_orders")
	require.Error(t, err)
	require.NotErrorIs(t, err, shortcut.ErrDeletePropagationTimeout)
}

func TestBucketChecker(t *testing.T) {
	dir := t.TempDir()

	tableDir := filepath.Join(dir, "Tables", "sales_orders", "_delta_log")
	require.NoError(t, os.MkdirAll(tableDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tableDir, "00000000000000000000.json"), []byte("{}"), 0o600))

	bucket, err := fileblob.OpenBucket(dir, nil)
	require.NoError(t, err)
	defer bucket.Close()

	ctx := context.Background()
	checker := shortcut.NewBucketChecker(bucket)

	exists, err := checker.Exists(ctx, "Tables/", "sales_orders")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = checker.Exists(ctx, "Tables/", "sales_customers")
	require.NoError(t, err)
	require.False(t, exists)
}
