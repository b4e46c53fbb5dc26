// Package reddit provides a discussx.Searcher backed by the Reddit search API,
// in public (unauthenticated JSON) or OAuth2 password-grant mode.
package reddit

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/discussx"
)

const (
	// DefaultUserAgent identifies this client to Reddit.
	DefaultUserAgent = "netlify-vercel-status-tracker/1.0.0"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 8 * time.Second

	defaultPublicBase = "https://www.reddit.com"
	defaultOAuthBase  = "https://oauth.reddit.com"
	defaultTokenURL   = "https://www.reddit.com/api/v1/access_token"
	defaultTokenSkew  = time.Minute
)

// Secrets holds the Reddit script-app credentials used for the password grant.
type Secrets struct {
	// ClientID is the OAuth client identifier.
	ClientID string `json:"client_id"`
	// ClientSecret is the OAuth client secret.
	ClientSecret string `json:"client_secret"`
	// Username is the resource-owner account name.
	Username string `json:"username"`
	// Password is the resource-owner account password.
	Password string `json:"password"`
}

// FetchSecrets is a function type that retrieves Reddit credentials.
// It allows for different secret retrieval strategies (static, environment variables, etc.).
type FetchSecrets func() (Secrets, error)

// StaticSecrets returns a FetchSecrets function that provides static credentials.
// This is useful for testing or when credentials are passed as flags.
func StaticSecrets(clientID, clientSecret, username, password string) FetchSecrets {
	return func() (Secrets, error) {
		return Secrets{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Username:     username,
			Password:     password,
		}, nil
	}
}

// EnvSecrets returns a FetchSecrets function that reads REDDIT_CLIENT_ID,
// REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD. Any unset
// variable is an error.
func EnvSecrets() FetchSecrets {
	return func() (Secrets, error) {
		var s Secrets
		for _, v := range []struct {
			name string
			dst  *string
		}{
			{"REDDIT_CLIENT_ID", &s.ClientID},
			{"REDDIT_CLIENT_SECRET", &s.ClientSecret},
			{"REDDIT_USERNAME", &s.Username},
			{"REDDIT_PASSWORD", &s.Password},
		} {
			*v.dst = os.Getenv(v.name)
			if *v.dst == "" {
				return Secrets{}, errors.Newf("%s environment variable is not set", v.name)
			}
		}
		return s, nil
	}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the identifying client header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithEndpoints overrides the public search host, the authenticated search
// host and the token endpoint. Empty values keep the defaults.
func WithEndpoints(publicBase, oauthBase, tokenURL string) Option {
	return func(c *Client) {
		if publicBase != "" {
			c.publicBase = publicBase
		}
		if oauthBase != "" {
			c.oauthBase = oauthBase
		}
		if tokenURL != "" {
			c.tokenURL = tokenURL
		}
	}
}

// WithTokenSkew sets how much earlier than its real expiry a token is
// considered stale.
func WithTokenSkew(d time.Duration) Option {
	return func(c *Client) {
		c.tokens.skew = d
	}
}

// Client holds the transport, endpoints and credentials shared by searches.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	publicBase string
	oauthBase  string
	tokenURL   string

	// getSecrets is nil in public mode.
	getSecrets func() (Secrets, error)
	tokens     *tokenCache
	tracer     trace.Tracer
}

// NewClient creates a Reddit client. A nil fetchSecrets selects the public
// JSON endpoints; otherwise every search is authenticated with a bearer token
// obtained through the password grant. Secrets are fetched lazily, once.
func NewClient(fetchSecrets FetchSecrets, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		publicBase: defaultPublicBase,
		oauthBase:  defaultOAuthBase,
		tokenURL:   defaultTokenURL,
		tokens:     &tokenCache{skew: defaultTokenSkew, now: time.Now},
		tracer:     otel.Tracer("discussx-reddit"),
	}

	if fetchSecrets != nil {
		c.getSecrets = sync.OnceValues(func() (Secrets, error) {
			secrets, err := fetchSecrets()
			if err != nil {
				return Secrets{}, errors.Mark(
					errors.Wrap(err, "failed to fetch secrets"),
					discussx.ErrMissingCredentials,
				)
			}
			if err := secrets.validate(); err != nil {
				return Secrets{}, errors.Mark(err, discussx.ErrMissingCredentials)
			}
			return secrets, nil
		})
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether the client uses the OAuth endpoints.
func (c *Client) Authenticated() bool {
	return c.getSecrets != nil
}

// Preflight resolves credentials in authenticated mode without touching the
// network beyond the secret source. It returns an error wrapping
// discussx.ErrMissingCredentials when any credential is absent.
func (c *Client) Preflight(ctx context.Context) error {
	if !c.Authenticated() {
		return nil
	}
	_, err := c.getSecrets()
	return err
}

func (s Secrets) validate() error {
	switch {
	case s.ClientID == "":
		return errors.New("ClientID is empty")
	case s.ClientSecret == "":
		return errors.New("ClientSecret is empty")
	case s.Username == "":
		return errors.New("Username is empty")
	case s.Password == "":
		return errors.New("Password is empty")
	}
	return nil
}
