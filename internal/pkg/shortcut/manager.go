// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.ciq.dev/shortcuts/internal/pkg/log"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

var (
	ErrShortcutFailed           = errors.New("shortcut request failed")
	ErrDeletePropagationTimeout = errors.New("timed out waiting for shortcut deletion")
)

const (
	DefaultWaitInterval = 5 * time.Second
	DefaultWaitTimeout  = 5 * time.Minute
)

// API is the subset of the Fabric client used by the manager.
type API interface {
	CreateShortcut(ctx context.Context, workspaceID, itemID string, shortcut fabric.Shortcut, conflictPolicy string) (*fabric.Result, error)
	GetShortcut(ctx context.Context, workspaceID, itemID, path, name string) (*fabric.Result, error)
	DeleteShortcut(ctx context.Context, workspaceID, itemID, path, name string) (*fabric.Result, error)
	ListShortcuts(ctx context.Context, workspaceID, itemID string) ([]fabric.Shortcut, error)
}

// Manager manages the shortcuts of one workspace item.
type Manager struct {
	api            API
	workspaceID    string
	itemID         string
	logger         *slog.Logger
	checker        Checker
	conflictPolicy string
	waitDelete     bool
	waitInterval   time.Duration
	waitTimeout    time.Duration
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithChecker sets how deleted shortcuts are looked up while waiting
// for the deletion to propagate.
func WithChecker(checker Checker) Option {
	return func(m *Manager) {
		m.checker = checker
	}
}

func WithConflictPolicy(policy string) Option {
	return func(m *Manager) {
		m.conflictPolicy = policy
	}
}

// WithDeleteWait enables or disables waiting for deletions, a zero
// timeout waits until the context is done.
func WithDeleteWait(enabled bool, interval, timeout time.Duration) Option {
	return func(m *Manager) {
		m.waitDelete = enabled
		if interval > 0 {
			m.waitInterval = interval
		}
		m.waitTimeout = timeout
	}
}

func NewManager(api API, workspaceID, itemID string, opts ...Option) *Manager {
	m := &Manager{
		api:          api,
		workspaceID:  workspaceID,
		itemID:       itemID,
		logger:       log.Discard(),
		waitDelete:   true,
		waitInterval: DefaultWaitInterval,
		waitTimeout:  DefaultWaitTimeout,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.checker == nil {
		m.checker = NewAPIChecker(api, workspaceID, itemID)
	}
	m.logger = m.logger.With("workspace", workspaceID, "item", itemID)

	return m
}

// Create creates the shortcut with the configured conflict policy.
func (m *Manager) Create(ctx context.Context, shortcut fabric.Shortcut) (*fabric.Result, error) {
	result, err := m.api.CreateShortcut(ctx, m.workspaceID, m.itemID, shortcut, m.conflictPolicy)
	if err != nil {
		m.logger.Error("an error occurred while creating shortcut", "shortcut", shortcut.Name, "error", err)
		return nil, err
	}

	m.logResult("create", shortcut.Path, shortcut.Name, result)

	return result, nil
}

func (m *Manager) Get(ctx context.Context, path, name string) (*fabric.Result, error) {
	result, err := m.api.GetShortcut(ctx, m.workspaceID, m.itemID, path, name)
	if err != nil {
		m.logger.Error("an error occurred while getting shortcut", "shortcut", name, "error", err)
		return nil, err
	}

	m.logResult("get", path, name, result)

	return result, nil
}

// Delete deletes the shortcut. When the service answers 200 and waiting
// is enabled, Delete returns once the shortcut is no longer visible.
func (m *Manager) Delete(ctx context.Context, path, name string) (*fabric.Result, error) {
	result, err := m.api.DeleteShortcut(ctx, m.workspaceID, m.itemID, path, name)
	if err != nil {
		m.logger.Error("an error occurred while deleting shortcut", "shortcut", name, "error", err)
		return nil, err
	}

	m.logResult("delete", path, name, result)

	if result.StatusCode == http.StatusOK && m.waitDelete {
		if err := m.WaitDeleted(ctx, path, name); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (m *Manager) List(ctx context.Context) ([]fabric.Shortcut, error) {
	shortcuts, err := m.api.ListShortcuts(ctx, m.workspaceID, m.itemID)
	if err != nil {
		m.logger.Error("an error occurred while listing shortcuts", "error", err)
		return nil, err
	}

	m.logger.Debug("shortcuts listed", "count", len(shortcuts))

	return shortcuts, nil
}

func (m *Manager) logResult(action, path, name string, result *fabric.Result) {
	if result.Success() {
		m.logger.Info("shortcut "+action+" succeeded",
			"path", path,
			"shortcut", name,
			"status_code", result.StatusCode,
		)
		return
	}

	m.logger.Error("shortcut "+action+" failed",
		"path", path,
		"shortcut", name,
		"url", result.RequestURL,
		"status_code", result.StatusCode,
		"status_description", result.StatusDescription,
		"response", string(result.ResponseText),
	)
}
