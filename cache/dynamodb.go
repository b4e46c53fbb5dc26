package cache

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"

	"github.com/letmevibethatforyou/discussx"
	"github.com/letmevibethatforyou/discussx/internal/ddb"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDB.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDB is a Store backed by a DynamoDB table keyed by "pk". Expiry is
// checked on read, so the table's own TTL sweep is optional.
type DynamoDB struct {
	client DynamoDBAPI
	table  string
	now    func() time.Time
}

// NewDynamoDB creates a store over table.
func NewDynamoDB(client DynamoDBAPI, table string) *DynamoDB {
	return &DynamoDB{client: client, table: table, now: time.Now}
}

// Get implements Store.
func (d *DynamoDB) Get(ctx context.Context, key string) ([]discussx.Record, bool, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            ddb.KeyOf(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, errors.Mark(errors.Wrapf(err, "get item %s", key), discussx.ErrCacheUnavailable)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	entry, err := ddb.UnmarshalEntry(out.Item)
	if err != nil {
		return nil, false, errors.Mark(errors.Wrapf(err, "decode item %s", key), discussx.ErrCacheUnavailable)
	}
	if entry.Expired(d.now()) {
		return nil, false, nil
	}
	return entry.Records, true, nil
}

// Set implements Store.
func (d *DynamoDB) Set(ctx context.Context, key string, records []discussx.Record, ttl time.Duration) error {
	item, err := ddb.MarshalEntry(ddb.NewEntry(key, records, d.now(), ttl))
	if err != nil {
		return errors.Wrap(err, "encode entry")
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "put item %s", key), discussx.ErrCacheUnavailable)
	}
	return nil
}
