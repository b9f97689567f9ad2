// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package sighandler

import (
	"context"
	"os"
	"os/signal"
)

// ExitFunc is called when a second signal is received while the
// command is still winding down.
type ExitFunc func(code int)

// New returns a context cancelled on the first of the given signals.
// A second signal calls exit with status 130. The returned stop function
// releases the signal handler and must be called once the command returns.
func New(parent context.Context, exit ExitFunc, signals ...os.Signal) (context.Context, context.CancelFunc) {
	quit := make(chan os.Signal, 2)

	ctx, cancel := context.WithCancel(parent)

	signal.Notify(quit, signals...)

	done := make(chan struct{})

	go func() {
		select {
		case <-quit:
			cancel()
		case <-done:
			return
		}
		select {
		case <-quit:
			if exit != nil {
				exit(130)
			}
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(quit)
		close(done)
		cancel()
	}
}
