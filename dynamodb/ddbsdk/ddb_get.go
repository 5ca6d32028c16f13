package ddbsdk

import (
	"context"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/aws/aws-sdk-go-v2/aws"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Get looks up one item by primary key. It returns nil if absent.
func (c *Client) Get(ctx context.Context, pk, sk string) (*item.GenericItem, error) {
	singletable.MustKey(pk, sk)
	if err := singletable.CheckContext(ctx, "get"); err != nil {
		return nil, err
	}
	out, err := c.awsddb.GetItem(ctx, &dynamodbv2.GetItemInput{
		TableName:      c.tableName(),
		Key:            c.table.Key(pk, sk).DDB(),
		ConsistentRead: aws.Bool(!c.opts.eventuallyConsistent),
	})
	if err != nil {
		return nil, classify("get", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	it, err := item.Unmarshal(out.Item)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", pk, sk, err)
	}
	return &it, nil
}
