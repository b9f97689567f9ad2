// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package fabric

import (
	"errors"
	"fmt"

	v "github.com/RussellLuo/validating/v3"
)

// Storage target types, as keyed in the shortcut target object.
const (
	TargetAdlsGen2           = "adlsGen2"
	TargetAmazonS3           = "amazonS3"
	TargetGoogleCloudStorage = "googleCloudStorage"
	TargetS3Compatible       = "s3Compatible"
	TargetOneLake            = "oneLake"
)

// Shortcut conflict policies accepted by the create endpoint.
const (
	ConflictAbort              = "Abort"
	ConflictGenerateUniqueName = "GenerateUniqueName"
	ConflictCreateOrOverwrite  = "CreateOrOverwrite"
	ConflictOverwriteOnly      = "OverwriteOnly"
)

var ErrInvalidShortcut = errors.New("invalid shortcut")

// Shortcut is a named reference, created under Path inside a workspace
// item, pointing at data stored at Target.
type Shortcut struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Target Target `json:"target"`
}

// Target is keyed by storage type, only one member is expected to be set.
type Target struct {
	// Type is reported by the service on reads, it is never sent.
	Type string `json:"type,omitempty"`

	AdlsGen2           *ExternalTarget     `json:"adlsGen2,omitempty"`
	AmazonS3           *ExternalTarget     `json:"amazonS3,omitempty"`
	GoogleCloudStorage *ExternalTarget     `json:"googleCloudStorage,omitempty"`
	S3Compatible       *S3CompatibleTarget `json:"s3Compatible,omitempty"`
	OneLake            *OneLakeTarget      `json:"oneLake,omitempty"`
}

// ExternalTarget describes data living in an external storage account
// reachable through a pre-registered cloud connection.
type ExternalTarget struct {
	Location     string `json:"location"`
	Subpath      string `json:"subpath"`
	ConnectionID string `json:"connectionId"`
}

type S3CompatibleTarget struct {
	Location     string `json:"location"`
	Bucket       string `json:"bucket"`
	Subpath      string `json:"subpath"`
	ConnectionID string `json:"connectionId"`
}

type OneLakeTarget struct {
	WorkspaceID string `json:"workspaceId"`
	ItemID      string `json:"itemId"`
	Path        string `json:"path"`
}

// Types returns the storage types set in the target.
func (t Target) Types() []string {
	var types []string
	if t.AdlsGen2 != nil {
		types = append(types, TargetAdlsGen2)
	}
	if t.AmazonS3 != nil {
		types = append(types, TargetAmazonS3)
	}
	if t.GoogleCloudStorage != nil {
		types = append(types, TargetGoogleCloudStorage)
	}
	if t.S3Compatible != nil {
		types = append(types, TargetS3Compatible)
	}
	if t.OneLake != nil {
		types = append(types, TargetOneLake)
	}
	return types
}

// Location returns a printable location of the target data.
func (t Target) Location() string {
	switch {
	case t.AdlsGen2 != nil:
		return t.AdlsGen2.Location + t.AdlsGen2.Subpath
	case t.AmazonS3 != nil:
		return t.AmazonS3.Location + t.AmazonS3.Subpath
	case t.GoogleCloudStorage != nil:
		return t.GoogleCloudStorage.Location + t.GoogleCloudStorage.Subpath
	case t.S3Compatible != nil:
		return t.S3Compatible.Location + "/" + t.S3Compatible.Bucket + t.S3Compatible.Subpath
	case t.OneLake != nil:
		return t.OneLake.WorkspaceID + "/" + t.OneLake.ItemID + "/" + t.OneLake.Path
	}
	return ""
}

// NewTarget builds a target of the given external storage type.
func NewTarget(targetType, location, bucket, subpath, connectionID string) (Target, error) {
	external := &ExternalTarget{
		Location:     location,
		Subpath:      subpath,
		ConnectionID: connectionID,
	}

	switch targetType {
	case TargetAdlsGen2:
		return Target{AdlsGen2: external}, nil
	case TargetAmazonS3:
		return Target{AmazonS3: external}, nil
	case TargetGoogleCloudStorage:
		return Target{GoogleCloudStorage: external}, nil
	case TargetS3Compatible:
		return Target{S3Compatible: &S3CompatibleTarget{
			Location:     location,
			Bucket:       bucket,
			Subpath:      subpath,
			ConnectionID: connectionID,
		}}, nil
	}
	return Target{}, fmt.Errorf("%w: unsupported target type %q", ErrInvalidShortcut, targetType)
}

// Validate checks that the shortcut carries what the create endpoint needs.
// Values themselves are passed through untouched.
func (s Shortcut) Validate() error {
	schema := v.Schema{
		v.F("path", s.Path): v.Nonzero[string]().Msg("is empty"),
		v.F("name", s.Name): v.Nonzero[string]().Msg("is empty"),
		v.F("target", s.Target): v.Is(func(t Target) bool {
			return len(t.Types()) == 1
		}).Msg("must set exactly one storage type"),
	}

	switch {
	case s.Target.AdlsGen2 != nil:
		addExternalRules(schema, "target.adlsGen2", s.Target.AdlsGen2)
	case s.Target.AmazonS3 != nil:
		addExternalRules(schema, "target.amazonS3", s.Target.AmazonS3)
	case s.Target.GoogleCloudStorage != nil:
		addExternalRules(schema, "target.googleCloudStorage", s.Target.GoogleCloudStorage)
	case s.Target.S3Compatible != nil:
		t := s.Target.S3Compatible
		schema[v.F("target.s3Compatible.location", t.Location)] = v.Nonzero[string]().Msg("is empty")
		schema[v.F("target.s3Compatible.bucket", t.Bucket)] = v.Nonzero[string]().Msg("is empty")
		schema[v.F("target.s3Compatible.connectionId", t.ConnectionID)] = v.Nonzero[string]().Msg("is empty")
	case s.Target.OneLake != nil:
		t := s.Target.OneLake
		schema[v.F("target.oneLake.workspaceId", t.WorkspaceID)] = v.Nonzero[string]().Msg("is empty")
		schema[v.F("target.oneLake.itemId", t.ItemID)] = v.Nonzero[string]().Msg("is empty")
		schema[v.F("target.oneLake.path", t.Path)] = v.Nonzero[string]().Msg("is empty")
	}

	if errs := v.Validate(schema); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidShortcut, errs.Error())
	}
	return nil
}

func addExternalRules(schema v.Schema, prefix string, t *ExternalTarget) {
	schema[v.F(prefix+".location", t.Location)] = v.Nonzero[string]().Msg("is empty")
	schema[v.F(prefix+".connectionId", t.ConnectionID)] = v.Nonzero[string]().Msg("is empty")
}
