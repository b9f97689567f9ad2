// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	v "github.com/RussellLuo/validating/v3"
	"go.ciq.dev/shortcuts/pkg/fabric"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenError is returned when the identity endpoint refuses to issue
// an access token.
type TokenError struct {
	Code        string
	Description string
	Err         error
}

func (e *TokenError) Error() string {
	if e.Code == "" && e.Description == "" {
		return fmt.Sprintf("failed to acquire token: %s", e.Err)
	}
	return fmt.Sprintf("failed to acquire token: %s %s", e.Code, e.Description)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// NewTokenSource returns the token source configured by the auth method.
func NewTokenSource(config Config) (fabric.TokenSource, error) {
	scope := config.Scope
	if scope == "" {
		scope = fabric.Scope
	}
	authorityHost := config.AuthorityHost
	if authorityHost == "" {
		authorityHost = DefaultAuthorityHost
	}
	if !strings.HasSuffix(authorityHost, "/") {
		authorityHost += "/"
	}

	switch config.Method {
	case ClientSecretMethod, "":
		if err := validateClient(config); err != nil {
			return nil, err
		}
		cred, err := azidentity.NewClientSecretCredential(
			config.TenantID,
			config.ClientID,
			config.ClientSecret,
			&azidentity.ClientSecretCredentialOptions{
				ClientOptions: azcore.ClientOptions{
					Cloud: cloud.Configuration{
						ActiveDirectoryAuthorityHost: authorityHost,
					},
				},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("while creating client secret credential: %w", err)
		}
		return NewCredentialSource(cred, scope), nil
	case OAuth2Method:
		if err := validateClient(config); err != nil {
			return nil, err
		}
		cc := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     authorityHost + config.TenantID + "/oauth2/v2.0/token",
			Scopes:       []string{scope},
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return &oauth2Source{config: cc}, nil
	case StaticMethod:
		if config.Token == "" {
			return nil, fmt.Errorf("auth token is missing")
		}
		return Static(config.Token), nil
	}

	return nil, fmt.Errorf("unknown auth method %s", config.Method)
}

func validateClient(config Config) error {
	errs := v.Validate(v.Schema{
		v.F("tenant-id", config.TenantID):         v.Nonzero[string]().Msg("is missing"),
		v.F("client-id", config.ClientID):         v.Nonzero[string]().Msg("is missing"),
		v.F("client-secret", config.ClientSecret): v.Nonzero[string]().Msg("is missing"),
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid auth configuration: %s", errs.Error())
	}
	return nil
}

// Static is a pre-acquired bearer token.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// CredentialSource adapts an Azure SDK credential.
type CredentialSource struct {
	cred  azcore.TokenCredential
	scope string
}

func NewCredentialSource(cred azcore.TokenCredential, scope string) *CredentialSource {
	return &CredentialSource{
		cred:  cred,
		scope: scope,
	}
}

func (cs *CredentialSource) Token(ctx context.Context) (string, error) {
	token, err := cs.cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cs.scope},
	})
	if err != nil {
		return "", credentialError(err)
	}
	return token.Token, nil
}

// credentialError extracts the error code and description returned by
// the identity endpoint when the credential carries its response.
func credentialError(err error) error {
	tokenErr := &TokenError{Err: err}

	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) && authErr.RawResponse != nil {
		tokenErr.Code, tokenErr.Description = decodeErrorBody(authErr.RawResponse)
	}

	return tokenErr
}

func decodeErrorBody(resp *http.Response) (string, string) {
	if resp.Body == nil {
		return "", ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ""
	}

	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", ""
	}

	return body.Error, body.ErrorDescription
}

type oauth2Source struct {
	config *clientcredentials.Config
}

func (s *oauth2Source) Token(ctx context.Context) (string, error) {
	token, err := s.config.Token(ctx)
	if err != nil {
		tokenErr := &TokenError{Err: err}

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			tokenErr.Code = retrieveErr.ErrorCode
			tokenErr.Description = retrieveErr.ErrorDescription
		}
		return "", tokenErr
	}

	if token.AccessToken == "" {
		return "", &TokenError{Err: errors.New("no access token in response")}
	}

	return token.AccessToken, nil
}
