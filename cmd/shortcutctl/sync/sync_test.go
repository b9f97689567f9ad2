// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package sync_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/ctl"
	"go.ciq.dev/shortcuts/cmd/shortcutctl/sync"
	"go.ciq.dev/shortcuts/internal/pkg/config"
	"go.ciq.dev/shortcuts/pkg/fabric/fabrictest"
)

const (
	workspaceID  = "6e335e92-a2a2-4b5a-970a-bd6a89fbb765"
	itemID       = "2a4b8d1e-0c0b-4c1f-9a54-7f3a9ad3bb21"
	connectionID = "91324db9-8dc4-4730-a1e5-bafabf1fb91e"
)

func setup(t *testing.T, endpoint string) string {
	dir := t.TempDir()
	gold := filepath.Join(dir, "gold")

	for _, table := range []string{"sales/orders", "sales/customers", "warehouse/stock"} {
		tableDir := filepath.Join(gold, table, "_delta_log")
		require.NoError(t, os.MkdirAll(tableDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(tableDir, "00000000000000000000.json"), []byte("{}"), 0o600))
	}

	content := `version: 1.0
log:
  level: error
auth:
  method: static
  token: secret
fabric:
  endpoint: ` + endpoint + `
  workspace-id: ` + workspaceID + `
  item-id: ` + itemID + `
  timeout: 10s
storage:
  driver: filesystem
  filesystem:
    directory: ` + gold + `
discovery:
  location: https://contoso.dfs.core.windows.net
  container: gold
  connection-id: ` + connectionID + `
delete-wait:
  enabled: true
  checker: api
  interval: 1ms
  timeout: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ShortcutctlConfigFile), []byte(content), 0o600))

	return dir
}

func execute(dir string, args ...string) (string, error) {
	rootCmd := ctl.NewRootCommand()
	rootCmd.AddCommand(sync.NewCommand())

	stdout := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append([]string{"--config-dir", dir}, args...))

	err := rootCmd.ExecuteContext(context.Background())

	return stdout.String(), err
}

func TestSync(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithToken("secret"))
	defer srv.Close()

	dir := setup(t, srv.URL)

	out, err := execute(dir, "sync", "--jobs", "2")
	require.NoError(t, err)

	require.Contains(t, out, "Creating shortcut for sales.customers: success\n")
	require.Contains(t, out, "Creating shortcut for sales.orders: success\n")
	require.Contains(t, out, "Creating shortcut for warehouse.stock: success\n")

	shortcuts := srv.Shortcuts(workspaceID, itemID)
	require.Len(t, shortcuts, 3)

	subpaths := make(map[string]string)
	for _, shortcut := range shortcuts {
		require.Equal(t, "Tables/", shortcut.Path)
		require.NotNil(t, shortcut.Target.AdlsGen2)
		require.Equal(t, "https://contoso.dfs.core.windows.net", shortcut.Target.AdlsGen2.Location)
		require.Equal(t, connectionID, shortcut.Target.AdlsGen2.ConnectionID)
		subpaths[shortcut.Name] = shortcut.Target.AdlsGen2.Subpath
	}
	require.Equal(t, map[string]string{
		"sales_customers": "/gold/sales/customers",
		"sales_orders":    "/gold/sales/orders",
		"warehouse_stock": "/gold/warehouse/stock",
	}, subpaths)

	// existing shortcuts conflict unless recreated
	_, err = execute(dir, "sync")
	require.ErrorContains(t, err, "3 of 3 shortcuts failed")

	out, err = execute(dir, "sync", "--recreate")
	require.NoError(t, err)
	require.Contains(t, out, "Creating shortcut for sales.orders: success\n")
}

func TestSyncFailure(t *testing.T) {
	srv := fabrictest.NewServer(fabrictest.WithFailure("sales_orders", http.StatusForbidden))
	defer srv.Close()

	dir := setup(t, srv.URL)

	out, err := execute(dir, "sync")
	require.ErrorContains(t, err, "1 of 3 shortcuts failed")
	require.ErrorContains(t, err, "sales.orders")
	require.Contains(t, out, "Creating shortcut for sales.orders: error\n")
	require.Len(t, srv.Shortcuts(workspaceID, itemID), 2)
}

func TestSyncDryRun(t *testing.T) {
	srv := fabrictest.NewServer()
	defer srv.Close()

	dir := setup(t, srv.URL)

	out, err := execute(dir, "sync", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "Planned shortcut Tables/warehouse_stock for warehouse.stock: https://contoso.dfs.core.windows.net/gold/warehouse/stock\n")
	require.Empty(t, srv.Requests())
}

func TestSyncInvalidSource(t *testing.T) {
	srv := fabrictest.NewServer()
	defer srv.Close()

	dir := setup(t, srv.URL)

	_, err := execute(dir, "sync", "--source", "https://contoso.blob.core.windows.net/gold")
	require.ErrorContains(t, err, "unsupported scheme")
	require.Empty(t, srv.Requests())
}
