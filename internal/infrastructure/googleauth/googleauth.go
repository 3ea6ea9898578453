package googleauth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"jobnest/internal/config"
)

var (
	ErrNotConfigured = errors.New("google oauth is not configured")
	ErrNoIDToken     = errors.New("google token response carried no id_token")
)

// Flow obtains the Google ID token the backend's /auth/google/verify
// endpoint accepts as a credential.
type Flow struct {
	cfg *oauth2.Config
}

func New(cfg config.OAuthConfig) (*Flow, error) {
	if strings.TrimSpace(cfg.GoogleClientID) == "" {
		return nil, ErrNotConfigured
	}
	redirect := cfg.GoogleRedirectURL
	if redirect == "" {
		redirect = "urn:ietf:wg:oauth:2.0:oob"
	}
	return &Flow{cfg: &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  redirect,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}, nil
}

// WithEndpoint points the flow at another provider, mostly for tests.
func (f *Flow) WithEndpoint(ep oauth2.Endpoint) *Flow {
	f.cfg.Endpoint = ep
	return f
}

func (f *Flow) AuthCodeURL(state string) string {
	return f.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the pasted authorization code for an ID token.
func (f *Flow) Exchange(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.New("empty authorization code")
	}
	tok, err := f.cfg.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	id, _ := tok.Extra("id_token").(string)
	if id == "" {
		return "", ErrNoIDToken
	}
	return id, nil
}
