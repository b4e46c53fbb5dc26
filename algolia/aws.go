package algolia

import (
	"context"

	"github.com/letmevibethatforyou/discussx/internal/awssecret"
)

// SecretsManagerClient defines the interface for AWS Secrets Manager operations.
type SecretsManagerClient = awssecret.Client

// AWSSecrets returns a FetchSecrets function that retrieves Algolia credentials
// from the secret "{environment}/algolia". The secret holds JSON with app_id
// and write_api_key fields.
func AWSSecrets(ctx context.Context, client SecretsManagerClient, env string) FetchSecrets {
	return awssecret.Fetch[Secrets](ctx, client, awssecret.Path(env, "algolia"))
}

// AWSSecretsFromARN returns a FetchSecrets function that retrieves Algolia
// credentials from the secret with the given ARN.
func AWSSecretsFromARN(ctx context.Context, client SecretsManagerClient, secretArn string) FetchSecrets {
	return awssecret.Fetch[Secrets](ctx, client, awssecret.ARN(secretArn))
}
