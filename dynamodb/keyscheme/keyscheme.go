// Package keyscheme derives the primary and secondary index keys of every
// entity stored in the status table. All functions are pure.
package keyscheme

import (
	"fmt"
	"strings"
	"time"

	"github.com/acksell/statustable"
	"github.com/acksell/statustable/dynamodb/index/val"
)

const (
	// Separator joins key segments. Identifiers must not contain it.
	Separator = "#"

	// IssueBucket is the shared partition of all issues.
	IssueBucket = "ISSUE"

	// OrderingLayout is fixed width so that tokens sort lexically in time order.
	OrderingLayout = "2006-01-02T15:04:05.000000000Z"
)

// Field names used in the key patterns.
const (
	fieldScope = "scope"
	fieldID    = "id"
	fieldToken = "token"
	fieldAttr  = "attr"
)

type scheme struct {
	pk val.Pattern
	sk val.Pattern
	// gsi1pk and gsi1sk are zero when the type has no secondary access pattern.
	gsi1pk val.Pattern
	gsi1sk val.Pattern
}

var schemes = map[statustable.EntityType]scheme{
	statustable.EntityUser: {
		pk:     val.Fmt("USER#{scope}"),
		sk:     val.Fmt("PROFILE"),
		gsi1pk: val.Fmt("TEAM#{attr}"),
		gsi1sk: val.Fmt("USER#{token}"),
	},
	statustable.EntityIssue: {
		pk:     val.Fmt("{scope}"),
		sk:     val.Fmt("{token}#{id}"),
		gsi1pk: val.Fmt("STATUS#{attr}"),
		gsi1sk: val.Fmt("{token}"),
	},
	statustable.EntityWorkload: {
		pk:     val.Fmt("WORKLOAD#{scope}"),
		sk:     val.Fmt("STATUS"),
		gsi1pk: val.Fmt("LEVEL#{attr}"),
		gsi1sk: val.Fmt("{token}"),
	},
}

func schemeFor(t statustable.EntityType) scheme {
	s, ok := schemes[t]
	if !ok {
		panic(fmt.Sprintf("keyscheme: unknown entity type %q", t))
	}
	return s
}

// ValidateID reports whether id can be embedded in a key.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("identifier is empty")
	}
	if strings.Contains(id, Separator) {
		return fmt.Errorf("identifier %q contains separator %q", id, Separator)
	}
	return nil
}

func mustID(what, id string) {
	if err := ValidateID(id); err != nil {
		panic(fmt.Sprintf("keyscheme: %s: %v", what, err))
	}
}

func mustRender(p val.Pattern, fields map[string]string) string {
	s, err := p.Render(fields)
	if err != nil {
		panic(fmt.Sprintf("keyscheme: %v", err))
	}
	return s
}

// PartitionKeyFor returns the partition key of an entity. scopeID is the
// owner id for single-instance types and IssueBucket for issues.
func PartitionKeyFor(t statustable.EntityType, scopeID string) string {
	mustID("scope id", scopeID)
	return mustRender(schemeFor(t).pk, map[string]string{fieldScope: scopeID})
}

// SortKeyFor returns the sort key of an entity. Single-instance types ignore
// both arguments. For issues the ordering token comes first so that a
// partition scan is chronological, ties broken by instance id.
func SortKeyFor(t statustable.EntityType, instanceID, orderingToken string) string {
	s := schemeFor(t)
	if s.sk.IsConstant() {
		return s.sk.String()
	}
	mustID("instance id", instanceID)
	mustID("ordering token", orderingToken)
	return mustRender(s.sk, map[string]string{fieldID: instanceID, fieldToken: orderingToken})
}

// SecondaryKeyFor returns the GSI1 keys grouping an entity by
// indexedAttribute. An empty indexedAttribute means the entity is not indexed
// and (nil, nil) is returned.
//
// The ordering token orders items within the group: the user id for users,
// the full sort key for issues and a RecencyToken of the last write for
// workloads.
func SecondaryKeyFor(t statustable.EntityType, indexedAttribute, orderingToken string) (gsi1pk, gsi1sk *string) {
	s := schemeFor(t)
	if s.gsi1pk.IsZero() || indexedAttribute == "" {
		return nil, nil
	}
	if orderingToken == "" {
		panic("keyscheme: ordering token is empty")
	}
	pk := mustRender(s.gsi1pk, map[string]string{fieldAttr: indexedAttribute})
	sk := mustRender(s.gsi1sk, map[string]string{fieldToken: orderingToken})
	return &pk, &sk
}

// IndexPartition returns the GSI1 partition key for a group, as used by index queries.
func IndexPartition(t statustable.EntityType, indexedAttribute string) string {
	s := schemeFor(t)
	if s.gsi1pk.IsZero() {
		panic(fmt.Sprintf("keyscheme: %q has no secondary index", t))
	}
	return mustRender(s.gsi1pk, map[string]string{fieldAttr: indexedAttribute})
}

// ParsePartitionKey recovers the scope id from a partition key.
func ParsePartitionKey(t statustable.EntityType, pk string) (string, error) {
	fields, ok := schemeFor(t).pk.Match(pk)
	if !ok {
		return "", fmt.Errorf("partition key %q does not match %s", pk, schemeFor(t).pk)
	}
	return fields[fieldScope], nil
}

// ParseSortKey recovers the instance id and ordering token from the sort key
// of a multi-instance entity. Both are empty for single-instance types.
func ParseSortKey(t statustable.EntityType, sk string) (instanceID, orderingToken string, err error) {
	p := schemeFor(t).sk
	fields, ok := p.Match(sk)
	if !ok {
		return "", "", fmt.Errorf("sort key %q does not match %s", sk, p)
	}
	return fields[fieldID], fields[fieldToken], nil
}

// OrderingToken formats an instant as a lexically sortable token.
func OrderingToken(t time.Time) string {
	return t.UTC().Format(OrderingLayout)
}

// RecencyToken orders instances by the instant at, ties broken by id.
func RecencyToken(at time.Time, id string) string {
	mustID("instance id", id)
	return OrderingToken(at) + Separator + id
}

// ParseOrderingToken is the inverse of OrderingToken.
func ParseOrderingToken(token string) (time.Time, error) {
	t, err := time.Parse(OrderingLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ordering token %q: %w", token, err)
	}
	return t.UTC(), nil
}

// UpperBound returns a key that sorts after every key starting with prefix.
func UpperBound(prefix string) string {
	return prefix + "\U0010FFFF"
}
