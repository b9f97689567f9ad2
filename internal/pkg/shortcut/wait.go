// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"gocloud.dev/blob"
)

var errStillExists = errors.New("shortcut still exists")

// Checker reports whether a shortcut is still visible.
type Checker interface {
	Exists(ctx context.Context, path, name string) (bool, error)
}

// APIChecker looks shortcuts up through the shortcut endpoint.
type APIChecker struct {
	api         API
	workspaceID string
	itemID      string
}

func NewAPIChecker(api API, workspaceID, itemID string) *APIChecker {
	return &APIChecker{
		api:         api,
		workspaceID: workspaceID,
		itemID:      itemID,
	}
}

func (c *APIChecker) Exists(ctx context.Context, path, name string) (bool, error) {
	result, err := c.api.GetShortcut(ctx, c.workspaceID, c.itemID, path, name)
	if err != nil {
		return false, err
	}

	switch {
	case result.Success():
		return true, nil
	case result.StatusCode == http.StatusNotFound:
		return false, nil
	}

	return false, fmt.Errorf("unexpected status %d %s while looking up shortcut %s", result.StatusCode, result.StatusDescription, name)
}

// BucketChecker looks shortcuts up in the item storage, such as the
// OneLake folder of a lakehouse, the way a notebook checks paths.
type BucketChecker struct {
	bucket *blob.Bucket
}

func NewBucketChecker(bucket *blob.Bucket) *BucketChecker {
	return &BucketChecker{
		bucket: bucket,
	}
}

func (c *BucketChecker) Exists(ctx context.Context, path, name string) (bool, error) {
	key := strings.Trim(path, "/")
	if key != "" {
		key += "/"
	}
	key += name

	exists, err := c.bucket.Exists(ctx, key)
	if err != nil || exists {
		return exists, err
	}

	iter := c.bucket.List(&blob.ListOptions{
		Prefix:    key + "/",
		Delimiter: "/",
	})
	if _, err := iter.Next(ctx); errors.Is(err, io.EOF) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

// WaitDeleted polls the checker at the wait interval until the shortcut
// is reported as gone.
func (m *Manager) WaitDeleted(ctx context.Context, path, name string) error {
	waitCtx := ctx
	if m.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, m.waitTimeout)
		defer cancel()
	}

	polls := 0

	err := backoff.Retry(func() error {
		polls++

		exists, err := m.checker.Exists(waitCtx, path, name)
		if err != nil {
			m.logger.Warn("while checking shortcut deletion", "shortcut", name, "error", err)
			return err
		} else if exists {
			m.logger.Debug("waiting for shortcut deletion to propagate", "shortcut", name, "polls", polls)
			return errStillExists
		}

		return nil
	}, backoff.WithContext(backoff.NewConstantBackOff(m.waitInterval), waitCtx))
	if err != nil {
		if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w %s after %s", ErrDeletePropagationTimeout, name, m.waitTimeout)
		}
		return fmt.Errorf("while waiting for shortcut %s deletion: %w", name, err)
	}

	m.logger.Info("shortcut deletion propagated", "shortcut", name, "polls", polls)

	return nil
}
