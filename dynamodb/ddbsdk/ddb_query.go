package ddbsdk

import (
	"context"
	"fmt"

	"github.com/acksell/statustable/dynamodb/item"
	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/acksell/statustable/dynamodb/table"
	"github.com/aws/aws-sdk-go-v2/aws"
	expression2 "github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// KeyCondition selects one partition and optionally a sort key range in it.
type KeyCondition struct {
	partition string
	strategy  SortKeyStrategy
}

func NewKeyCondition(partition string, strategy SortKeyStrategy) KeyCondition {
	return KeyCondition{
		partition: partition,
		strategy:  strategy,
	}
}

func (k KeyCondition) build(keys table.KeySchema) (expression2.Expression, error) {
	cond := expression2.Key(keys.PartitionKey).Equal(expression2.Value(k.partition))
	if k.strategy != nil {
		cond = cond.And(k.strategy(keys.SortKey))
	}
	return expression2.NewBuilder().WithKeyCondition(cond).Build()
}

// QueryByPartition yields the items of partition pk whose sort key starts with skPrefix.
func (c *Client) QueryByPartition(ctx context.Context, pk, skPrefix string) singletable.Seq {
	singletable.MustPartition(pk)
	var strategy SortKeyStrategy
	if skPrefix != "" {
		strategy = BeginsWith(skPrefix)
	}
	return c.query(ctx, "query partition", nil, c.table.Keys, NewKeyCondition(pk, strategy))
}

// QueryByIndex yields the items of GSI1 partition gsi1pk whose GSI1SK lies in r.
func (c *Client) QueryByIndex(ctx context.Context, gsi1pk string, r *singletable.Range) singletable.Seq {
	singletable.MustPartition(gsi1pk)
	if r.IsEmpty() {
		// DynamoDB rejects BETWEEN with inverted bounds
		return singletable.None()
	}
	return c.query(ctx, "query index", &c.gsi.Name, c.gsi.Keys, NewKeyCondition(gsi1pk, rangeStrategy(r)))
}

func (c *Client) queryInput(indexName *string, keys table.KeySchema, kc KeyCondition) (*dynamodbv2.QueryInput, error) {
	expr, err := kc.build(keys)
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}
	in := &dynamodbv2.QueryInput{
		TableName:                 c.tableName(),
		IndexName:                 indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}
	if indexName == nil {
		in.ConsistentRead = aws.Bool(!c.opts.eventuallyConsistent)
	}
	return in, nil
}

// query runs a paginated Query each time the sequence is ranged over.
func (c *Client) query(ctx context.Context, op string, indexName *string, keys table.KeySchema, kc KeyCondition) singletable.Seq {
	return func(yield func(item.GenericItem, error) bool) {
		in, err := c.queryInput(indexName, keys, kc)
		if err != nil {
			yield(item.GenericItem{}, err)
			return
		}
		p := dynamodbv2.NewQueryPaginator(c.awsddb, in, func(o *dynamodbv2.QueryPaginatorOptions) {
			o.Limit = c.opts.pageSize
		})
		for p.HasMorePages() {
			if err := singletable.CheckContext(ctx, op); err != nil {
				yield(item.GenericItem{}, err)
				return
			}
			out, err := p.NextPage(ctx)
			if err != nil {
				yield(item.GenericItem{}, classify(op, err))
				return
			}
			for _, av := range out.Items {
				it, err := item.Unmarshal(av)
				if err != nil {
					yield(item.GenericItem{}, fmt.Errorf("%s: %w", op, err))
					return
				}
				if !yield(it, nil) {
					return
				}
			}
		}
	}
}
