// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseShortcutctlConfig(t *testing.T) {
	sc, err := ParseShortcutctlConfig("")
	require.NoError(t, err)

	require.Equal(t, "1.0", sc.Version)
	require.Equal(t, "", sc.ConfigDirectory)

	require.Equal(t, "info", sc.Log.Level)
	require.Equal(t, "text", sc.Log.Format)

	require.Equal(t, "client-secret", sc.Auth.Method)
	require.Equal(t, "https://login.microsoftonline.com/", sc.Auth.AuthorityHost)
	require.Equal(t, "https://api.fabric.microsoft.com/.default", sc.Auth.Scope)

	require.Equal(t, "https://api.fabric.microsoft.com", sc.Fabric.Endpoint)
	require.Equal(t, time.Minute, sc.Fabric.Timeout)
	require.Equal(t, "Abort", sc.Fabric.ConflictPolicy)

	require.Equal(t, "azure", sc.Storage.Driver)
	require.Equal(t, "deltacopy/wwi/", sc.Storage.Prefix)
	require.Equal(t, "gold", sc.Storage.Azure.Container)
	require.Equal(t, "us-east-1", sc.Storage.S3.Region)

	require.Equal(t, "Tables/", sc.Discovery.ShortcutPath)

	require.True(t, sc.DeleteWait.Enabled)
	require.Equal(t, APIChecker, sc.DeleteWait.Checker)
	require.Equal(t, 5*time.Second, sc.DeleteWait.Interval)
	require.Equal(t, 5*time.Minute, sc.DeleteWait.Timeout)
}

func TestParseShortcutctlConfigDir(t *testing.T) {
	dir := t.TempDir()

	content := `version: 1.0
log:
  level: debug
  format: json
auth:
  method: oauth2
  tenant-id: 72f988bf-86f1-41af-91ab-2d7cd011db47
  client-id: client
fabric:
  workspace-id: 6e335e92-a2a2-4b5a-970a-bd6a89fbb765
  item-id: 2a4b8d1e-0c0b-4c1f-9a54-7f3a9ad3bb21
storage:
  driver: filesystem
  filesystem:
    directory: /mnt/gold
discovery:
  connection-id: 91324db9-8dc4-4730-a1e5-bafabf1fb91e
  location: https://contoso.dfs.core.windows.net
  container: gold
delete-wait:
  enabled: false
  checker: onelake
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ShortcutctlConfigFile), []byte(content), 0o600))

	t.Setenv("SHORTCUTCTL_AUTH_CLIENTSECRET", "from-env")

	sc, err := ParseShortcutctlConfig(dir)
	require.NoError(t, err)

	require.Equal(t, dir, sc.ConfigDirectory)
	require.Equal(t, "debug", sc.Log.Level)
	require.Equal(t, "oauth2", sc.Auth.Method)
	require.Equal(t, "client", sc.Auth.ClientID)
	require.Equal(t, "from-env", sc.Auth.ClientSecret)
	require.Equal(t, "filesystem", sc.Storage.Driver)
	require.Equal(t, "/mnt/gold", sc.Storage.Filesystem.Directory)
	require.Equal(t, "gold", sc.Discovery.Container)
	require.False(t, sc.DeleteWait.Enabled)
	require.Equal(t, OneLakeChecker, sc.DeleteWait.Checker)

	require.NoError(t, sc.Validate())
}

func TestParseShortcutctlConfigMissingDir(t *testing.T) {
	_, err := ParseShortcutctlConfig(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	sc, err := ParseShortcutctlConfig("")
	require.NoError(t, err)

	err = sc.Validate()
	require.ErrorContains(t, err, "fabric.workspace-id")
	require.ErrorContains(t, err, "fabric.item-id")

	sc.Fabric.WorkspaceID = "6e335e92-a2a2-4b5a-970a-bd6a89fbb765"
	sc.Fabric.ItemID = "2a4b8d1e-0c0b-4c1f-9a54-7f3a9ad3bb21"
	require.NoError(t, sc.Validate())

	sc.Fabric.ConflictPolicy = "Replace"
	require.ErrorContains(t, sc.Validate(), "fabric.conflict-policy")

	sc.Fabric.ConflictPolicy = ""
	sc.DeleteWait.Interval = 0
	require.ErrorContains(t, sc.Validate(), "delete-wait.interval")

	sc.DeleteWait.Enabled = false
	require.NoError(t, sc.Validate())
}
