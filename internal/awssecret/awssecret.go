// Package awssecret reads JSON credential documents from AWS Secrets Manager.
package awssecret

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Client defines the interface for AWS Secrets Manager operations.
type Client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Ref names a secret either by environment path or by ARN.
type Ref struct {
	ID    string
	label string
}

// Path refers to the secret "{env}/{name}".
func Path(env, name string) Ref {
	return Ref{ID: fmt.Sprintf("%s/%s", env, name), label: "at path"}
}

// ARN refers to the secret with the given ARN.
func ARN(arn string) Ref {
	return Ref{ID: arn, label: "with ARN"}
}

func (r Ref) String() string {
	return r.label + " " + r.ID
}

// Fetch returns a function that loads the secret's string value and decodes
// it as JSON into a T.
func Fetch[T any](ctx context.Context, client Client, ref Ref) func() (T, error) {
	return func() (T, error) {
		var zero T

		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(ref.ID),
		})
		if err != nil {
			return zero, fmt.Errorf("failed to get secret from AWS Secrets Manager %s: %w", ref, err)
		}

		if result.SecretString == nil {
			return zero, fmt.Errorf("secret %s has no string value", ref)
		}

		var v T
		if err := json.Unmarshal([]byte(aws.ToString(result.SecretString)), &v); err != nil {
			return zero, fmt.Errorf("failed to unmarshal secret JSON %s: %w", ref, err)
		}
		return v, nil
	}
}
