// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ABFSSPath is an ADLS Gen2 path such as
// abfss://gold@contoso.dfs.core.windows.net/deltacopy/wwi/.
type ABFSSPath struct {
	Container   string
	AccountName string
	// DFSDomain is the host without the account name, e.g. dfs.core.windows.net.
	DFSDomain string
	Prefix    string
}

func ParseABFSS(rawURL string) (*ABFSSPath, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("while parsing %s: %w", rawURL, err)
	}

	if u.Scheme != "abfss" && u.Scheme != "abfs" {
		return nil, fmt.Errorf("%s: unsupported scheme %q", rawURL, u.Scheme)
	} else if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%s: container is missing", rawURL)
	}

	account, domain, ok := strings.Cut(u.Hostname(), ".")
	if !ok || account == "" || domain == "" {
		return nil, fmt.Errorf("%s: invalid account host %q", rawURL, u.Host)
	}

	return &ABFSSPath{
		Container:   u.User.Username(),
		AccountName: account,
		DFSDomain:   domain,
		Prefix:      NormalizePrefix(u.Path),
	}, nil
}

// Location returns the account URL used by ADLS Gen2 shortcut targets.
func (p *ABFSSPath) Location() string {
	return "https://" + p.AccountName + "." + p.DFSDomain
}

// Apply points the storage configuration at the path: azure driver,
// account and container, with the path as prefix.
func (p *ABFSSPath) Apply(config *Config) {
	config.Driver = AzureStorageDriver
	config.Prefix = p.Prefix
	config.Azure.AccountName = p.AccountName
	config.Azure.Container = p.Container
	config.Azure.StorageDomain = ""
	if strings.HasPrefix(p.DFSDomain, "dfs.") {
		domain := "blob." + strings.TrimPrefix(p.DFSDomain, "dfs.")
		if domain != "blob.core.windows.net" {
			config.Azure.StorageDomain = domain
		}
	}
}
