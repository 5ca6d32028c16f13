package ddbsdk

import (
	"github.com/acksell/statustable/dynamodb/singletable"
	expression2 "github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// SortKeyStrategy defines how to filter on the sort key in a range query.
type SortKeyStrategy func(skName string) expression2.KeyConditionBuilder

// BeginsWith returns items where the sort key starts with the provided prefix.
func BeginsWith(prefix string) SortKeyStrategy {
	return func(skName string) expression2.KeyConditionBuilder {
		return expression2.KeyBeginsWith(expression2.Key(skName), prefix)
	}
}

// Between returns items where the sort key is between start and end (inclusive).
func Between(start, end string) SortKeyStrategy {
	return func(skName string) expression2.KeyConditionBuilder {
		return expression2.KeyBetween(
			expression2.Key(skName),
			expression2.Value(start),
			expression2.Value(end),
		)
	}
}

// GreaterThanOrEqual returns items where the sort key is greater than or equal to the provided value.
func GreaterThanOrEqual(v string) SortKeyStrategy {
	return func(skName string) expression2.KeyConditionBuilder {
		return expression2.KeyGreaterThanEqual(expression2.Key(skName), expression2.Value(v))
	}
}

// LessThanOrEqual returns items where the sort key is less than or equal to the provided value.
func LessThanOrEqual(v string) SortKeyStrategy {
	return func(skName string) expression2.KeyConditionBuilder {
		return expression2.KeyLessThanEqual(expression2.Key(skName), expression2.Value(v))
	}
}

// rangeStrategy translates an inclusive range. It returns nil for an open range.
func rangeStrategy(r *singletable.Range) SortKeyStrategy {
	switch {
	case r.IsOpen():
		return nil
	case r.Lo != "" && r.Hi != "":
		return Between(r.Lo, r.Hi)
	case r.Lo != "":
		return GreaterThanOrEqual(r.Lo)
	default:
		return LessThanOrEqual(r.Hi)
	}
}
