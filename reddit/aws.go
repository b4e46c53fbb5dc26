package reddit

import (
	"context"

	"github.com/letmevibethatforyou/discussx/internal/awssecret"
)

// SecretsManagerClient defines the interface for AWS Secrets Manager operations.
type SecretsManagerClient = awssecret.Client

// AWSSecrets returns a FetchSecrets function that retrieves Reddit credentials
// from AWS Secrets Manager. The secret is expected to be stored at the path
// "{environment}/reddit" and contain JSON with client_id, client_secret,
// username and password fields.
func AWSSecrets(ctx context.Context, client SecretsManagerClient, env string) FetchSecrets {
	return awssecret.Fetch[Secrets](ctx, client, awssecret.Path(env, "reddit"))
}

// AWSSecretsFromARN returns a FetchSecrets function that retrieves Reddit
// credentials from AWS Secrets Manager using the provided secret ARN.
func AWSSecretsFromARN(ctx context.Context, client SecretsManagerClient, secretArn string) FetchSecrets {
	return awssecret.Fetch[Secrets](ctx, client, awssecret.ARN(secretArn))
}
