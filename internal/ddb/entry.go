// Package ddb maps cache entries to and from DynamoDB items.
package ddb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/letmevibethatforyou/discussx"
)

// Attribute names used in the cache table.
const (
	AttrKey       = "pk"
	AttrExpiresAt = "expires_at"
)

// Entry is one cached result list as stored in DynamoDB.
type Entry struct {
	Key       string            `dynamodbav:"pk"`
	Records   []discussx.Record `dynamodbav:"records"`
	ExpiresAt int64             `dynamodbav:"expires_at"` // unix seconds, usable as the table TTL attribute
	UpdatedAt int64             `dynamodbav:"updated_at"`
}

// NewEntry builds an entry for key expiring ttl after now.
func NewEntry(key string, records []discussx.Record, now time.Time, ttl time.Duration) Entry {
	if records == nil {
		records = []discussx.Record{}
	}
	return Entry{
		Key:       key,
		Records:   records,
		ExpiresAt: now.Add(ttl).Unix(),
		UpdatedAt: now.Unix(),
	}
}

// Expired reports whether the entry is no longer valid at now.
func (e Entry) Expired(now time.Time) bool {
	return now.Unix() >= e.ExpiresAt
}

// KeyOf returns the primary key attribute map for key.
func KeyOf(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrKey: &types.AttributeValueMemberS{Value: key},
	}
}

// MarshalEntry converts an Entry into a DynamoDB item.
func MarshalEntry(e Entry) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(e)
}

// UnmarshalEntry converts a DynamoDB item into an Entry.
func UnmarshalEntry(item map[string]types.AttributeValue) (Entry, error) {
	var e Entry
	if err := attributevalue.UnmarshalMap(item, &e); err != nil {
		return Entry{}, err
	}
	if e.Records == nil {
		e.Records = []discussx.Record{}
	}
	return e, nil
}
