package ddbsdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/acksell/statustable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func keySchema(keys table.KeySchema) []types.KeySchemaElement {
	return []types.KeySchemaElement{
		{AttributeName: aws.String(keys.PartitionKey), KeyType: types.KeyTypeHash},
		{AttributeName: aws.String(keys.SortKey), KeyType: types.KeyTypeRange},
	}
}

// attributeDefinitions declares every key attribute as a string.
func attributeDefinitions(schemas ...table.KeySchema) []types.AttributeDefinition {
	var out []types.AttributeDefinition
	for _, s := range schemas {
		for _, name := range []string{s.PartitionKey, s.SortKey} {
			out = append(out, types.AttributeDefinition{
				AttributeName: aws.String(name),
				AttributeType: types.ScalarAttributeTypeS,
			})
		}
	}
	return out
}

// CreateTableInput describes the table: on-demand billing and one GSI
// projecting all attributes.
func (c *Client) CreateTableInput() *dynamodbv2.CreateTableInput {
	return &dynamodbv2.CreateTableInput{
		TableName:            c.tableName(),
		BillingMode:          types.BillingModePayPerRequest,
		KeySchema:            keySchema(c.table.Keys),
		AttributeDefinitions: attributeDefinitions(c.table.Keys, c.gsi.Keys),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName:  aws.String(c.gsi.Name),
				KeySchema:  keySchema(c.gsi.Keys),
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// CreateTable creates the table, waits until it is active and enables TTL
// on the table's time to live attribute.
func (c *Client) CreateTable(ctx context.Context) error {
	if _, err := c.awsddb.CreateTable(ctx, c.CreateTableInput()); err != nil {
		return fmt.Errorf("create table %s: %w", c.table.Name, err)
	}
	c.opts.log.InfoContext(ctx, "waiting for table to become active")

	waiter := dynamodbv2.NewTableExistsWaiter(c.awsddb)
	err := waiter.Wait(ctx, &dynamodbv2.DescribeTableInput{TableName: c.tableName()}, c.opts.tableWaitTimeout)
	if err != nil {
		return fmt.Errorf("wait for table %s: %w", c.table.Name, err)
	}

	if c.table.TimeToLiveKey != "" {
		_, err = c.awsddb.UpdateTimeToLive(ctx, &dynamodbv2.UpdateTimeToLiveInput{
			TableName: c.tableName(),
			TimeToLiveSpecification: &types.TimeToLiveSpecification{
				AttributeName: aws.String(c.table.TimeToLiveKey),
				Enabled:       aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("enable TTL on %s: %w", c.table.Name, err)
		}
	}
	c.opts.log.InfoContext(ctx, "table created")
	return nil
}

// Validate checks that the existing table matches the expected key schema,
// secondary index and TTL configuration.
func (c *Client) Validate(ctx context.Context) error {
	out, err := c.awsddb.DescribeTable(ctx, &dynamodbv2.DescribeTableInput{TableName: c.tableName()})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return fmt.Errorf("table %s does not exist", c.table.Name)
		}
		return fmt.Errorf("describe table %s: %w", c.table.Name, err)
	}
	if err := matchKeySchema("table "+c.table.Name, out.Table.KeySchema, c.table.Keys); err != nil {
		return err
	}

	var gsiFound bool
	for _, g := range out.Table.GlobalSecondaryIndexes {
		if aws.ToString(g.IndexName) != c.gsi.Name {
			continue
		}
		gsiFound = true
		if err := matchKeySchema("index "+c.gsi.Name, g.KeySchema, c.gsi.Keys); err != nil {
			return err
		}
		if g.Projection == nil || g.Projection.ProjectionType != types.ProjectionTypeAll {
			return fmt.Errorf("index %s must project all attributes", c.gsi.Name)
		}
	}
	if !gsiFound {
		return fmt.Errorf("table %s has no index %s", c.table.Name, c.gsi.Name)
	}

	if c.table.TimeToLiveKey == "" {
		return nil
	}
	ttl, err := c.awsddb.DescribeTimeToLive(ctx, &dynamodbv2.DescribeTimeToLiveInput{TableName: c.tableName()})
	if err != nil {
		return fmt.Errorf("describe TTL of %s: %w", c.table.Name, err)
	}
	desc := ttl.TimeToLiveDescription
	if desc == nil || desc.TimeToLiveStatus != types.TimeToLiveStatusEnabled {
		return fmt.Errorf("table %s does not have TTL enabled", c.table.Name)
	}
	if got := aws.ToString(desc.AttributeName); got != c.table.TimeToLiveKey {
		return fmt.Errorf("table %s has TTL attribute %s, expected %s", c.table.Name, got, c.table.TimeToLiveKey)
	}
	return nil
}

func matchKeySchema(what string, got []types.KeySchemaElement, want table.KeySchema) error {
	if len(got) != 2 {
		return fmt.Errorf("%s has %d key attributes, expected 2", what, len(got))
	}
	for i, w := range keySchema(want) {
		if aws.ToString(got[i].AttributeName) != aws.ToString(w.AttributeName) || got[i].KeyType != w.KeyType {
			return fmt.Errorf("%s has %s key %s, expected %s", what, got[i].KeyType, aws.ToString(got[i].AttributeName), aws.ToString(w.AttributeName))
		}
	}
	return nil
}
