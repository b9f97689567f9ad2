// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package version

// Semver is set at build time with -ldflags "-X go.ciq.dev/shortcuts/pkg/version.Semver=...".
var Semver = "v0.0.0-dev"

// UserAgent returns the User-Agent sent with every API request.
func UserAgent() string {
	return "shortcutctl/" + Semver
}
