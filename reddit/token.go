package reddit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/oauth2"

	"github.com/letmevibethatforyou/discussx"
)

// tokenCache holds the current bearer token. Callers that find it stale
// serialize on mu, so a burst of concurrent misses costs a single fetch.
// Script-app grants carry no refresh token; a stale token is replaced by a
// new password grant.
type tokenCache struct {
	mu        sync.Mutex
	value     string
	expiresAt time.Time
	skew      time.Duration
	now       func() time.Time
}

// accessToken returns a cached token, fetching a fresh one when the cache is
// empty or stale.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if c.tokens.value != "" && c.tokens.now().Before(c.tokens.expiresAt) {
		return c.tokens.value, nil
	}

	tok, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	lifetime := tokenLifetime(tok, c.tokens.now())
	ttl := lifetime - c.tokens.skew
	if lifetime <= 2*c.tokens.skew {
		ttl = lifetime / 2
	}
	c.tokens.value = tok.AccessToken
	c.tokens.expiresAt = c.tokens.now().Add(ttl)
	return c.tokens.value, nil
}

// tokenLifetime prefers the raw expires_in field so the cache clock decides
// expiry, falling back to the absolute expiry oauth2 derived from it.
func tokenLifetime(tok *oauth2.Token, now time.Time) time.Duration {
	if v, ok := tok.Extra("expires_in").(float64); ok && v > 0 {
		return time.Duration(v) * time.Second
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(now)
	}
	return 0
}

// invalidateToken drops the cached token if it is still the one the caller
// saw rejected. A token already replaced by a sibling refresh is kept.
func (c *Client) invalidateToken(stale string) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if c.tokens.value == stale {
		c.tokens.value = ""
		c.tokens.expiresAt = time.Time{}
	}
}

func (c *Client) fetchToken(ctx context.Context) (*oauth2.Token, error) {
	ctx, span := c.tracer.Start(ctx, "reddit.token")
	defer span.End()

	secrets, err := c.getSecrets()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing credentials")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: &userAgentTransport{base: c.httpClient.Transport, userAgent: c.userAgent},
		Timeout:   c.httpClient.Timeout,
	})

	conf := &oauth2.Config{
		ClientID:     secrets.ClientID,
		ClientSecret: secrets.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	tok, err := conf.PasswordCredentialsToken(ctx, secrets.Username, secrets.Password)
	if err != nil {
		span.RecordError(err)
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			span.SetAttributes(attribute.Int("http.status_code", re.Response.StatusCode))
			switch re.Response.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				span.SetStatus(codes.Error, "credentials rejected")
				return nil, errors.Mark(
					errors.Newf("token endpoint returned status %d", re.Response.StatusCode),
					discussx.ErrUnauthorized,
				)
			}
			span.SetStatus(codes.Error, "token endpoint error")
			return nil, errors.Mark(
				errors.Newf("token endpoint returned status %d", re.Response.StatusCode),
				discussx.ErrBackendUnavailable,
			)
		}
		span.SetStatus(codes.Error, "token request failed")
		return nil, classify(err, "token request failed")
	}

	span.SetStatus(codes.Ok, "token acquired")
	return tok, nil
}

// userAgentTransport sets the identifying client header on token requests
// made by oauth2.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return base.RoundTrip(req)
}
