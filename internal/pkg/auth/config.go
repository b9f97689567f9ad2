// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package auth

const (
	ClientSecretMethod = "client-secret"
	OAuth2Method       = "oauth2"
	StaticMethod       = "static"
)

const DefaultAuthorityHost = "https://login.microsoftonline.com/"

type Config struct {
	Method        string `yaml:"method"`
	TenantID      string `yaml:"tenant-id"`
	ClientID      string `yaml:"client-id"`
	ClientSecret  string `yaml:"client-secret"`
	AuthorityHost string `yaml:"authority-host"`
	Scope         string `yaml:"scope"`
	Token         string `yaml:"token"`
}
