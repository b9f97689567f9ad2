// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

//go:build mage

package main

import (
	//mage:import
	_ "go.ciq.dev/shortcuts/build/mage"
)
