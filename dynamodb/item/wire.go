package item

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Marshal converts the item to its DynamoDB attribute map.
func (it GenericItem) Marshal() (map[string]types.AttributeValue, error) {
	if it.Data == nil {
		it.Data = map[string]any{}
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item %s/%s: %w", it.PK, it.SK, err)
	}
	return av, nil
}

// Unmarshal converts a DynamoDB attribute map back into an item.
// Numbers inside Data come back as int64 when integral, float64 otherwise.
func Unmarshal(av map[string]types.AttributeValue) (GenericItem, error) {
	var it GenericItem
	err := attributevalue.UnmarshalMapWithOptions(av, &it, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return GenericItem{}, fmt.Errorf("unmarshal item: %w", err)
	}
	if it.Data == nil {
		it.Data = map[string]any{}
	}
	for k, v := range it.Data {
		it.Data[k] = normalizeNumbers(v)
	}
	return it, nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case attributevalue.Number:
		if i, err := strconv.ParseInt(string(val), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return f
		}
		return string(val)
	case map[string]any:
		for k, inner := range val {
			val[k] = normalizeNumbers(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = normalizeNumbers(inner)
		}
		return val
	default:
		return v
	}
}
