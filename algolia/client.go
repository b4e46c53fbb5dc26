// Package algolia archives ranked discussions in an Algolia index and reads
// them back as a discussx.Searcher.
package algolia

import (
	"fmt"
	"os"
	"sync"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/discussx"
)

// Secrets holds the Algolia application credentials.
type Secrets struct {
	// AppID is the Algolia application ID.
	AppID string `json:"app_id"`
	// WriteApiKey is the Algolia write API key.
	WriteApiKey string `json:"write_api_key"`
}

// FetchSecrets is a function type that retrieves Algolia credentials.
type FetchSecrets func() (Secrets, error)

// StaticSecrets returns a FetchSecrets function that provides static credentials.
func StaticSecrets(appID, writeApiKey string) FetchSecrets {
	return func() (Secrets, error) {
		return Secrets{
			AppID:       appID,
			WriteApiKey: writeApiKey,
		}, nil
	}
}

// EnvSecrets reads ALGOLIA_APP_ID and ALGOLIA_API_KEY.
func EnvSecrets() FetchSecrets {
	return func() (Secrets, error) {
		appID := os.Getenv("ALGOLIA_APP_ID")
		if appID == "" {
			return Secrets{}, fmt.Errorf("ALGOLIA_APP_ID environment variable is not set")
		}

		apiKey := os.Getenv("ALGOLIA_API_KEY")
		if apiKey == "" {
			return Secrets{}, fmt.Errorf("ALGOLIA_API_KEY environment variable is not set")
		}

		return Secrets{
			AppID:       appID,
			WriteApiKey: apiKey,
		}, nil
	}
}

// Index is the subset of *search.Index used by this package.
type Index interface {
	SaveObjects(objects interface{}, opts ...interface{}) (search.GroupBatchRes, error)
	Search(query string, opts ...interface{}) (search.QueryRes, error)
}

// Client opens indices lazily; credentials are fetched on first use.
type Client struct {
	openIndex func(name string) (Index, error)
	tracer    trace.Tracer
}

// NewClient creates a client. fetchSecrets is not called until an index is
// first needed.
func NewClient(fetchSecrets FetchSecrets) *Client {
	getClient := sync.OnceValues(func() (*search.Client, error) {
		secrets, err := fetchSecrets()
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to fetch algolia secrets"), discussx.ErrMissingCredentials)
		}

		if secrets.AppID == "" {
			return nil, errors.Mark(errors.New("algolia AppID is empty"), discussx.ErrMissingCredentials)
		}

		if secrets.WriteApiKey == "" {
			return nil, errors.Mark(errors.New("algolia WriteApiKey is empty"), discussx.ErrMissingCredentials)
		}

		return search.NewClient(secrets.AppID, secrets.WriteApiKey), nil
	})

	return &Client{
		openIndex: func(name string) (Index, error) {
			client, err := getClient()
			if err != nil {
				return nil, err
			}
			return client.InitIndex(name), nil
		},
		tracer: otel.Tracer("discussx-algolia"),
	}
}
