package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmevibethatforyou/discussx"
)

// mockDynamo keeps items in a map keyed by the "pk" string attribute.
type mockDynamo struct {
	mu     sync.Mutex
	items  map[string]map[string]types.AttributeValue
	getErr error
	putErr error

	lastGet *dynamodb.GetItemInput
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func pkOf(item map[string]types.AttributeValue) string {
	if v, ok := item["pk"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGet = params
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &dynamodb.GetItemOutput{Item: m.items[pkOf(params.Key)]}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.items[pkOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoDB_UsesTableAndConsistentRead(t *testing.T) {
	mock := newMockDynamo()
	d := NewDynamoDB(mock, "discussions-cache")

	_, _, err := d.Get(context.Background(), "redditComments")
	require.NoError(t, err)
	require.NotNil(t, mock.lastGet)
	assert.Equal(t, "discussions-cache", aws.ToString(mock.lastGet.TableName))
	assert.True(t, aws.ToBool(mock.lastGet.ConsistentRead))
}

func TestDynamoDB_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		mock := newMockDynamo()
		mock.getErr = errors.New("throttled")
		_, ok, err := NewDynamoDB(mock, "t").Get(ctx, "k")
		assert.False(t, ok)
		assert.True(t, errors.Is(err, discussx.ErrCacheUnavailable), "error = %v", err)
	})

	t.Run("put", func(t *testing.T) {
		mock := newMockDynamo()
		mock.putErr = errors.New("throttled")
		err := NewDynamoDB(mock, "t").Set(ctx, "k", records, time.Hour)
		assert.True(t, errors.Is(err, discussx.ErrCacheUnavailable), "error = %v", err)
	})

	t.Run("corrupt item", func(t *testing.T) {
		mock := newMockDynamo()
		mock.items["k"] = map[string]types.AttributeValue{
			"pk":         &types.AttributeValueMemberS{Value: "k"},
			"expires_at": &types.AttributeValueMemberS{Value: "soon"},
		}
		_, _, err := NewDynamoDB(mock, "t").Get(ctx, "k")
		assert.True(t, errors.Is(err, discussx.ErrCacheUnavailable), "error = %v", err)
	})
}
