/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Auth selects how the GitHub client authenticates. A Token takes precedence
// over GitHub App credentials.
type Auth struct {
	// Token is a personal access token or an Actions GITHUB_TOKEN.
	Token string

	// AppID, InstallationID and PrivateKeyPath authenticate as a GitHub App installation.
	AppID          int64
	InstallationID int64
	PrivateKeyPath string

	// BaseURL points the client at a GitHub Enterprise Server API, e.g.
	// "https://github.example.com/api/v3/". Empty, or the public API URL,
	// means github.com.
	BaseURL string
}

const publicAPIURL = "https://api.github.com"

func (a Auth) enterpriseURL() string {
	if strings.TrimSuffix(a.BaseURL, "/") == publicAPIURL {
		return ""
	}
	return a.BaseURL
}

// ErrNoCredentials is returned when neither a token nor App credentials are set.
var ErrNoCredentials = errors.New("no GitHub credentials configured")

// Validate checks that some form of credential is present.
func (a Auth) Validate() error {
	if a.Token != "" {
		return nil
	}
	if a.AppID != 0 || a.InstallationID != 0 || a.PrivateKeyPath != "" {
		if a.AppID == 0 || a.InstallationID == 0 || a.PrivateKeyPath == "" {
			return fmt.Errorf("GitHub App authentication needs an app id, an installation id and a private key path")
		}
		return nil
	}
	return ErrNoCredentials
}

// NewClient constructs an authenticated go-github client.
func NewClient(ctx context.Context, auth Auth) (*github.Client, error) {
	if err := auth.Validate(); err != nil {
		return nil, err
	}

	var httpClient *http.Client
	if auth.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: auth.Token}))
	} else {
		tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, auth.AppID, auth.InstallationID, auth.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("creating GitHub App transport: %w", err)
		}
		if base := auth.enterpriseURL(); base != "" {
			tr.BaseURL = strings.TrimSuffix(base, "/")
		}
		httpClient = &http.Client{Transport: tr}
	}

	client := github.NewClient(httpClient)
	if base := auth.enterpriseURL(); base != "" {
		var err error
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", base, err)
		}
	}
	return client, nil
}
