// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerJSON(t *testing.T) {
	buf := new(bytes.Buffer)

	logger, err := Config{Level: "info", Format: "json"}.Logger(buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shortcut created", "shortcut", "sales_orders")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "shortcut created", record["msg"])
	require.Equal(t, "sales_orders", record["shortcut"])
}

func TestLoggerErrors(t *testing.T) {
	_, err := Config{Level: "verbose"}.Logger(nil)
	require.EqualError(t, err, "unknown log level verbose")

	_, err = Config{Level: "warn", Format: "xml"}.Logger(nil)
	require.EqualError(t, err, "unknown log format xml")
}
