// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

// Package fabrictest provides an in-memory implementation of the
// Fabric shortcut endpoints for tests.
package fabrictest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.ciq.dev/shortcuts/pkg/fabric"
)

// Request is a request received by the server.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type Option func(*Server)

// WithToken makes the server reject requests not carrying this bearer token.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithPageSize sets the number of shortcuts returned per list page.
func WithPageSize(size int) Option {
	return func(s *Server) {
		s.pageSize = size
	}
}

// WithDeletePropagation keeps a deleted shortcut visible to the given
// number of subsequent reads.
func WithDeletePropagation(reads int) Option {
	return func(s *Server) {
		s.propagation = reads
	}
}

// WithFailure makes every create request for the shortcut name fail
// with the status code.
func WithFailure(name string, statusCode int) Option {
	return func(s *Server) {
		s.failures[name] = statusCode
	}
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	token       string
	pageSize    int
	propagation int
	failures    map[string]int
	items       map[string]map[string]fabric.Shortcut
	deleted     map[string]deletedShortcut
	requests    []Request
}

type deletedShortcut struct {
	shortcut fabric.Shortcut
	reads    int
}

// NewServer starts a server, it must be closed by the caller.
func NewServer(opts ...Option) *Server {
	s := &Server{
		pageSize: 50,
		failures: make(map[string]int),
		items:    make(map[string]map[string]fabric.Shortcut),
		deleted:  make(map[string]deletedShortcut),
	}

	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	router.Use(s.record, s.authenticate)

	base := "/v1/workspaces/{workspace}/items/{item}/shortcuts"
	router.HandleFunc(base, s.createShortcut).Methods(http.MethodPost)
	router.HandleFunc(base, s.listShortcuts).Methods(http.MethodGet)
	router.HandleFunc(base+"/{rest:.+}", s.getShortcut).Methods(http.MethodGet)
	router.HandleFunc(base+"/{rest:.+}", s.deleteShortcut).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(router)

	return s
}

// Put stores a shortcut as if it was created through the API.
func (s *Server) Put(workspaceID, itemID string, shortcut fabric.Shortcut) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.item(workspaceID, itemID)[key(shortcut.Path, shortcut.Name)] = shortcut
}

// Shortcuts returns the shortcuts of a workspace item sorted by path and name.
func (s *Server) Shortcuts(workspaceID, itemID string) []fabric.Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()

	return sortedShortcuts(s.item(workspaceID, itemID))
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

func (s *Server) item(workspaceID, itemID string) map[string]fabric.Shortcut {
	id := workspaceID + "/" + itemID
	item, ok := s.items[id]
	if !ok {
		item = make(map[string]fabric.Shortcut)
		s.items[id] = item
	}
	return item
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "TokenExpired", "Access token has expired, resubmit with a new access token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createShortcut(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shortcut := new(fabric.Shortcut)
	if err := json.NewDecoder(r.Body).Decode(shortcut); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	} else if err := shortcut.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if code, ok := s.failures[shortcut.Name]; ok {
		writeError(w, code, "RequestFailed", fmt.Sprintf("creation of %s failed", shortcut.Name))
		return
	}

	item := s.item(vars["workspace"], vars["item"])
	k := key(shortcut.Path, shortcut.Name)
	_, exists := item[k]

	switch policy := r.URL.Query().Get("shortcutConflictPolicy"); policy {
	case "", fabric.ConflictAbort:
		if exists {
			writeError(w, http.StatusConflict, "EntityConflict", fmt.Sprintf("shortcut %s already exists", shortcut.Name))
			return
		}
	case fabric.ConflictGenerateUniqueName:
		for i := 1; exists; i++ {
			name := fmt.Sprintf("%s_%d", shortcut.Name, i)
			k = key(shortcut.Path, name)
			if _, exists = item[k]; !exists {
				shortcut.Name = name
			}
		}
	case fabric.ConflictCreateOrOverwrite:
	case fabric.ConflictOverwriteOnly:
		if !exists {
			writeError(w, http.StatusNotFound, "EntityNotFound", fmt.Sprintf("shortcut %s does not exist", shortcut.Name))
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "InvalidParameter", fmt.Sprintf("unknown conflict policy %s", policy))
		return
	}

	item[k] = *shortcut
	delete(s.deleted, vars["workspace"]+"/"+vars["item"]+"/"+k)

	writeJSON(w, http.StatusCreated, shortcut)
}

func (s *Server) getShortcut(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	k := strings.Trim(vars["rest"], "/")
	deletedKey := vars["workspace"] + "/" + vars["item"] + "/" + k

	s.mu.Lock()
	defer s.mu.Unlock()

	if shortcut, ok := s.item(vars["workspace"], vars["item"])[k]; ok {
		writeJSON(w, http.StatusOK, shortcut)
		return
	}

	if deleted, ok := s.deleted[deletedKey]; ok && deleted.reads > 0 {
		deleted.reads--
		s.deleted[deletedKey] = deleted
		writeJSON(w, http.StatusOK, deleted.shortcut)
		return
	}

	writeError(w, http.StatusNotFound, "EntityNotFound", fmt.Sprintf("shortcut %s does not exist", k))
}

func (s *Server) deleteShortcut(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	k := strings.Trim(vars["rest"], "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.item(vars["workspace"], vars["item"])
	shortcut, ok := item[k]
	if !ok {
		writeError(w, http.StatusNotFound, "EntityNotFound", fmt.Sprintf("shortcut %s does not exist", k))
		return
	}

	delete(item, k)
	if s.propagation > 0 {
		s.deleted[vars["workspace"]+"/"+vars["item"]+"/"+k] = deletedShortcut{
			shortcut: shortcut,
			reads:    s.propagation,
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) listShortcuts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	offset := 0
	if token := r.URL.Query().Get("continuationToken"); token != "" {
		var err error
		if offset, err = strconv.Atoi(token); err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "InvalidContinuationToken", "invalid continuation token")
			return
		}
	}

	s.mu.Lock()
	shortcuts := sortedShortcuts(s.item(vars["workspace"], vars["item"]))
	s.mu.Unlock()

	page := struct {
		Value             []fabric.Shortcut `json:"value"`
		ContinuationToken string            `json:"continuationToken,omitempty"`
	}{
		Value: []fabric.Shortcut{},
	}

	if offset < len(shortcuts) {
		end := offset + s.pageSize
		if end < len(shortcuts) {
			page.ContinuationToken = strconv.Itoa(end)
		} else {
			end = len(shortcuts)
		}
		page.Value = shortcuts[offset:end]
	}

	writeJSON(w, http.StatusOK, page)
}

func key(path, name string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return name
	}
	return path + "/" + name
}

func sortedShortcuts(item map[string]fabric.Shortcut) []fabric.Shortcut {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	shortcuts := make([]fabric.Shortcut, 0, len(keys))
	for _, k := range keys {
		shortcuts = append(shortcuts, item[k])
	}
	return shortcuts
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	requestID := uuid.NewString()
	w.Header().Set("RequestId", requestID)
	writeJSON(w, statusCode, map[string]string{
		"requestId": requestID,
		"errorCode": errorCode,
		"message":   message,
	})
}
