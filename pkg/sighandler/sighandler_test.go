// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package sighandler

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalCancelsContext(t *testing.T) {
	exited := make(chan int, 1)

	ctx, stop := New(context.Background(), func(code int) {
		exited <- code
	}, syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after signal")
	}

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case code := <-exited:
		require.Equal(t, 130, code)
	case <-time.After(5 * time.Second):
		t.Fatal("exit not called after second signal")
	}
}

func TestStopCancelsContext(t *testing.T) {
	ctx, stop := New(context.Background(), nil, syscall.SIGUSR2)
	stop()

	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
