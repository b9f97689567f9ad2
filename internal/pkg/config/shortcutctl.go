// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	v "github.com/RussellLuo/validating/v3"
	"github.com/distribution/distribution/v3/configuration"
	"github.com/google/uuid"
	"go.ciq.dev/shortcuts/internal/pkg/auth"
	"go.ciq.dev/shortcuts/internal/pkg/discovery"
	"go.ciq.dev/shortcuts/internal/pkg/log"
	"go.ciq.dev/shortcuts/internal/pkg/storage"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

const (
	DefaultConfigDir      = "/etc/shortcutctl"
	ShortcutctlConfigFile = "shortcutctl.yaml"

	// EnvPrefix prefixes environment variables overriding configuration
	// fields, e.g. SHORTCUTCTL_AUTH_CLIENTSECRET.
	EnvPrefix = "shortcutctl"
)

const (
	APIChecker     = "api"
	OneLakeChecker = "onelake"
)

//go:embed default/shortcutctl.yaml
var defaultShortcutctlConfig string

type Fabric struct {
	Endpoint       string        `yaml:"endpoint"`
	WorkspaceID    string        `yaml:"workspace-id"`
	ItemID         string        `yaml:"item-id"`
	Timeout        time.Duration `yaml:"timeout"`
	ConflictPolicy string        `yaml:"conflict-policy"`
}

type DeleteWait struct {
	Enabled  bool          `yaml:"enabled"`
	Checker  string        `yaml:"checker"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ShortcutctlConfig struct {
	Version         string           `yaml:"version"`
	Log             log.Config       `yaml:"log"`
	Auth            auth.Config      `yaml:"auth"`
	Fabric          Fabric           `yaml:"fabric"`
	Storage         storage.Config   `yaml:"storage"`
	Discovery       discovery.Config `yaml:"discovery"`
	DeleteWait      DeleteWait       `yaml:"delete-wait"`
	ConfigDirectory string           `yaml:"-"`
}

type ShortcutctlConfigV1 ShortcutctlConfig

// ParseShortcutctlConfig reads shortcutctl.yaml from dir, or from the
// default configuration directory when dir is empty. A missing default
// file falls back to the embedded configuration.
func ParseShortcutctlConfig(dir string) (*ShortcutctlConfig, error) {
	customDir := false
	filename := filepath.Join(DefaultConfigDir, ShortcutctlConfigFile)
	if dir != "" {
		filename = filepath.Join(dir, ShortcutctlConfigFile)
		customDir = true
	}

	configDir := filepath.Dir(filename)

	var configReader io.Reader

	f, err := os.Open(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || customDir {
			return nil, err
		}
		configReader = strings.NewReader(defaultShortcutctlConfig)
		configDir = ""
	} else {
		defer f.Close()
		configReader = f
	}

	configBuffer := new(bytes.Buffer)
	if _, err := io.Copy(configBuffer, configReader); err != nil {
		return nil, err
	}

	configParser := configuration.NewParser(EnvPrefix, []configuration.VersionedParseInfo{
		{
			Version: configuration.MajorMinorVersion(1, 0),
			ParseAs: reflect.TypeOf(ShortcutctlConfigV1{}),
			ConversionFunc: func(c interface{}) (interface{}, error) {
				if v1, ok := c.(*ShortcutctlConfigV1); ok {
					v1.ConfigDirectory = configDir
					return (*ShortcutctlConfig)(v1), nil
				}
				return nil, fmt.Errorf("expected *ShortcutctlConfigV1, received %#v", c)
			},
		},
	})

	shortcutctlConfig := new(ShortcutctlConfig)

	if err := configParser.Parse(configBuffer.Bytes(), shortcutctlConfig); err != nil {
		return nil, err
	}

	return shortcutctlConfig, nil
}

// Validate checks the settings every command relies on, it is called
// once command line overrides are applied.
func (sc *ShortcutctlConfig) Validate() error {
	errs := v.Validate(v.Schema{
		v.F("fabric.workspace-id", sc.Fabric.WorkspaceID): v.Is(isGUID).Msg("is not a valid GUID"),
		v.F("fabric.item-id", sc.Fabric.ItemID):           v.Is(isGUID).Msg("is not a valid GUID"),
		v.F("fabric.conflict-policy", sc.Fabric.ConflictPolicy): v.In(
			"",
			fabric.ConflictAbort,
			fabric.ConflictGenerateUniqueName,
			fabric.ConflictCreateOrOverwrite,
			fabric.ConflictOverwriteOnly,
		).Msg("is not a known conflict policy"),
		v.F("delete-wait.checker", sc.DeleteWait.Checker): v.In(APIChecker, OneLakeChecker).Msg("must be api or onelake"),
		v.F("delete-wait.interval", sc.DeleteWait.Interval): v.Is(func(d time.Duration) bool {
			return !sc.DeleteWait.Enabled || d > 0
		}).Msg("must be positive"),
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", errs.Error())
	}
	return nil
}

func isGUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
