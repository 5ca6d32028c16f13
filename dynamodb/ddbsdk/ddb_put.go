package ddbsdk

import (
	"context"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Put writes it unconditionally. DynamoDB maintains the GSI1 projection.
func (c *Client) Put(ctx context.Context, it item.GenericItem) error {
	singletable.MustValid(it)
	if err := singletable.CheckContext(ctx, "put"); err != nil {
		return err
	}
	av, err := it.Marshal()
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", it.PK, it.SK, err)
	}
	_, err = c.awsddb.PutItem(ctx, &dynamodbv2.PutItemInput{
		TableName: c.tableName(),
		Item:      av,
	})
	if err != nil {
		c.opts.log.WarnContext(ctx, "put item failed", "pk", it.PK, "sk", it.SK, "error", err)
		return classify("put", err)
	}
	c.opts.log.DebugContext(ctx, "put item", "pk", it.PK, "sk", it.SK, "itemType", it.ItemType)
	return nil
}
