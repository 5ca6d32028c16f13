package ddbsdk

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo records requests and serves canned responses. Query pages are
// chained through LastEvaluatedKey so the SDK paginator can walk them.
type fakeDynamo struct {
	err error

	puts    []*dynamodb.PutItemInput
	gets    []*dynamodb.GetItemInput
	deletes []*dynamodb.DeleteItemInput
	queries []*dynamodb.QueryInput

	getItem map[string]types.AttributeValue
	pages   [][]map[string]types.AttributeValue

	created  *dynamodb.CreateTableInput
	ttlSpec  *dynamodb.UpdateTimeToLiveInput
	describe *types.TableDescription
	ttl      *types.TimeToLiveDescription
}

var _ AWSDynamoClientV2 = (*fakeDynamo)(nil)

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.gets = append(f.gets, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.err != nil {
		return nil, f.err
	}
	page := 0
	if in.ExclusiveStartKey != nil {
		page, _ = strconv.Atoi(in.ExclusiveStartKey["page"].(*types.AttributeValueMemberS).Value)
	}
	out := &dynamodb.QueryOutput{}
	if page < len(f.pages) {
		out.Items = f.pages[page]
		out.Count = int32(len(out.Items))
	}
	if page+1 < len(f.pages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"page": &types.AttributeValueMemberS{Value: strconv.Itoa(page + 1)},
		}
	}
	return out, nil
}

func (f *fakeDynamo) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	f.describe = &types.TableDescription{
		TableName:              in.TableName,
		TableStatus:            types.TableStatusActive,
		KeySchema:              in.KeySchema,
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndexDescription{},
	}
	for _, g := range in.GlobalSecondaryIndexes {
		f.describe.GlobalSecondaryIndexes = append(f.describe.GlobalSecondaryIndexes, types.GlobalSecondaryIndexDescription{
			IndexName:  g.IndexName,
			KeySchema:  g.KeySchema,
			Projection: g.Projection,
		})
	}
	return &dynamodb.CreateTableOutput{TableDescription: f.describe}, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describe == nil {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return &dynamodb.DescribeTableOutput{Table: f.describe}, nil
}

func (f *fakeDynamo) UpdateTimeToLive(_ context.Context, in *dynamodb.UpdateTimeToLiveInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error) {
	f.ttlSpec = in
	f.ttl = &types.TimeToLiveDescription{
		AttributeName:    in.TimeToLiveSpecification.AttributeName,
		TimeToLiveStatus: types.TimeToLiveStatusEnabled,
	}
	return &dynamodb.UpdateTimeToLiveOutput{TimeToLiveSpecification: in.TimeToLiveSpecification}, nil
}

func (f *fakeDynamo) DescribeTimeToLive(_ context.Context, in *dynamodb.DescribeTimeToLiveInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTimeToLiveOutput, error) {
	if f.ttl == nil {
		return &dynamodb.DescribeTimeToLiveOutput{TimeToLiveDescription: &types.TimeToLiveDescription{
			TimeToLiveStatus: types.TimeToLiveStatusDisabled,
		}}, nil
	}
	return &dynamodb.DescribeTimeToLiveOutput{TimeToLiveDescription: f.ttl}, nil
}
