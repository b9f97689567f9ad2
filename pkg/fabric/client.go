// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package fabric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.ciq.dev/shortcuts/pkg/version"
)

const DefaultEndpoint = "https://api.fabric.microsoft.com"

// Scope is the OAuth scope granting access to the shortcut endpoints.
const Scope = "https://api.fabric.microsoft.com/.default"

// TokenSource provides the bearer token sent with every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the shortcut endpoints of the Fabric REST API.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New returns a client for the API served at endpoint, DefaultEndpoint
// is used when endpoint is empty.
func New(endpoint string, tokens TokenSource, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("while parsing endpoint %s: %w", endpoint, err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %s: unsupported scheme %q", endpoint, u.Scheme)
	}

	c := &Client{
		endpoint: u,
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
		tokens:    tokens,
		userAgent: version.UserAgent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CreateShortcut creates the shortcut in the workspace item. When
// conflictPolicy is not empty it is forwarded as shortcutConflictPolicy.
func (c *Client) CreateShortcut(ctx context.Context, workspaceID, itemID string, shortcut Shortcut, conflictPolicy string) (*Result, error) {
	if err := shortcut.Validate(); err != nil {
		return nil, err
	}

	u := c.shortcutsURL(workspaceID, itemID)
	if conflictPolicy != "" {
		query := u.Query()
		query.Set("shortcutConflictPolicy", conflictPolicy)
		u.RawQuery = query.Encode()
	}

	return c.do(ctx, http.MethodPost, u, shortcut)
}

// GetShortcut returns the shortcut named name under path.
func (c *Client) GetShortcut(ctx context.Context, workspaceID, itemID, path, name string) (*Result, error) {
	u := c.shortcutsURL(workspaceID, itemID, pathSegments(path, name)...)
	return c.do(ctx, http.MethodGet, u, nil)
}

// DeleteShortcut deletes the shortcut named name under path. The data
// pointed to by the shortcut is left untouched.
func (c *Client) DeleteShortcut(ctx context.Context, workspaceID, itemID, path, name string) (*Result, error) {
	u := c.shortcutsURL(workspaceID, itemID, pathSegments(path, name)...)
	return c.do(ctx, http.MethodDelete, u, nil)
}

type shortcutPage struct {
	Value             []Shortcut `json:"value"`
	ContinuationToken string     `json:"continuationToken"`
}

// ListShortcuts returns every shortcut of the workspace item, following
// continuation tokens until the last page.
func (c *Client) ListShortcuts(ctx context.Context, workspaceID, itemID string) ([]Shortcut, error) {
	shortcuts := []Shortcut{}
	token := ""

	for {
		u := c.shortcutsURL(workspaceID, itemID)
		if token != "" {
			query := u.Query()
			query.Set("continuationToken", token)
			u.RawQuery = query.Encode()
		}

		result, err := c.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		page := new(shortcutPage)
		if err := result.Decode(page); err != nil {
			return nil, fmt.Errorf("while listing shortcuts: %w", err)
		}

		shortcuts = append(shortcuts, page.Value...)

		if page.ContinuationToken == "" || page.ContinuationToken == token {
			return shortcuts, nil
		}
		token = page.ContinuationToken
	}
}

func (c *Client) shortcutsURL(workspaceID, itemID string, segments ...string) *url.URL {
	elems := []string{"v1", "workspaces", workspaceID, "items", itemID, "shortcuts"}
	elems = append(elems, segments...)
	for i := range elems {
		elems[i] = url.PathEscape(elems[i])
	}
	return c.endpoint.JoinPath(elems...)
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, payload any) (*Result, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("while marshalling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("while sending %s %s: %w", method, u.Redacted(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error during body read: %w", err)
	}

	return classify(resp, u.String(), payload, data), nil
}

// pathSegments splits a shortcut parent path such as "Tables/" or
// "Files/raw" and appends the shortcut name.
func pathSegments(path, name string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return append(segments, name)
}
