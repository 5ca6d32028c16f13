package ddbsdk

import (
	"context"

	"github.com/acksell/statustable/dynamodb/singletable"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Delete removes an item. DynamoDB treats deleting a missing item as success.
func (c *Client) Delete(ctx context.Context, pk, sk string) error {
	singletable.MustKey(pk, sk)
	if err := singletable.CheckContext(ctx, "delete"); err != nil {
		return err
	}
	_, err := c.awsddb.DeleteItem(ctx, &dynamodbv2.DeleteItemInput{
		TableName: c.tableName(),
		Key:       c.table.Key(pk, sk).DDB(),
	})
	if err != nil {
		return classify("delete", err)
	}
	c.opts.log.DebugContext(ctx, "delete item", "pk", pk, "sk", sk)
	return nil
}
