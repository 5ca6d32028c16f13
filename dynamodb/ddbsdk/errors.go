package ddbsdk

import (
	"errors"

	"github.com/acksell/statustable/dynamodb/singletable"
	"github.com/aws/smithy-go"
)

// Error codes DynamoDB uses when a request exceeds capacity or rate limits.
var throttleCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
	"TooManyRequestsException":               true,
}

// classify maps an SDK error onto the store's error kinds. The SDK error
// stays in the chain.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && throttleCodes[apiErr.ErrorCode()] {
		return singletable.Throttled(op, err)
	}
	return singletable.Unavailable(op, err)
}
