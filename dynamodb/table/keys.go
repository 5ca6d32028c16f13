package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KeySchema names the partition and sort key attributes of the table or of
// its index. Every key attribute of the status table is a string.
type KeySchema struct {
	PartitionKey string
	SortKey      string
}

// PrimaryKey is a partition and sort key value under a schema.
type PrimaryKey struct {
	Schema KeySchema
	PK     string
	SK     string
}

// Key returns the key pk/sk under s.
func (s KeySchema) Key(pk, sk string) PrimaryKey {
	return PrimaryKey{Schema: s, PK: pk, SK: sk}
}

// Has reports whether doc carries the partition key attribute of s.
// Items without it are not part of the index described by s.
func (s KeySchema) Has(doc map[string]types.AttributeValue) bool {
	_, ok := doc[s.PartitionKey]
	return ok
}

// Extract reads the key of doc under s. Both attributes must be non-empty strings.
func (s KeySchema) Extract(doc map[string]types.AttributeValue) (PrimaryKey, error) {
	pk, err := stringAttr(doc, s.PartitionKey)
	if err != nil {
		return PrimaryKey{}, fmt.Errorf("partition key: %w", err)
	}
	sk, err := stringAttr(doc, s.SortKey)
	if err != nil {
		return PrimaryKey{}, fmt.Errorf("sort key: %w", err)
	}
	return s.Key(pk, sk), nil
}

func stringAttr(doc map[string]types.AttributeValue, name string) (string, error) {
	av, ok := doc[name]
	if !ok {
		return "", fmt.Errorf("%q not found", name)
	}
	v, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("%q is %T, want a string", name, av)
	}
	if v.Value == "" {
		return "", fmt.Errorf("%q is empty", name)
	}
	return v.Value, nil
}

// DDB returns the key as a DynamoDB key map.
// An empty key value panics, it is a programming error.
func (k PrimaryKey) DDB() map[string]types.AttributeValue {
	if k.PK == "" || k.SK == "" {
		panic(fmt.Sprintf("table: incomplete key %s=%q %s=%q", k.Schema.PartitionKey, k.PK, k.Schema.SortKey, k.SK))
	}
	return map[string]types.AttributeValue{
		k.Schema.PartitionKey: &types.AttributeValueMemberS{Value: k.PK},
		k.Schema.SortKey:      &types.AttributeValueMemberS{Value: k.SK},
	}
}
