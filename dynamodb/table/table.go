package table

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of the single table layout. They are part of the persisted
// record format and must not change without a migration.
const (
	AttrPK        = "PK"
	AttrSK        = "SK"
	AttrGSI1PK    = "GSI1PK"
	AttrGSI1SK    = "GSI1SK"
	AttrItemType  = "ItemType"
	AttrData      = "Data"
	AttrCreatedAt = "CreatedAt"
	AttrUpdatedAt = "UpdatedAt"
	AttrTTL       = "TTL"

	DefaultGSIName = "GSI1"
)

type TableDefinition struct {
	Name          string
	Keys          KeySchema
	TimeToLiveKey string
	GSIs          []GSIDefinition
}

// GSIDefinition represents a Global Secondary Index definition.
type GSIDefinition struct {
	Name string
	Keys KeySchema
}

// SingleTable returns the definition of a team status table named name,
// with its one secondary index named gsiName. An empty gsiName uses DefaultGSIName.
func SingleTable(name, gsiName string) TableDefinition {
	if gsiName == "" {
		gsiName = DefaultGSIName
	}
	return TableDefinition{
		Name:          name,
		Keys:          KeySchema{PartitionKey: AttrPK, SortKey: AttrSK},
		TimeToLiveKey: AttrTTL,
		GSIs: []GSIDefinition{
			{
				Name: gsiName,
				Keys: KeySchema{PartitionKey: AttrGSI1PK, SortKey: AttrGSI1SK},
			},
		},
	}
}

// GSI returns the first secondary index of the table.
func (t TableDefinition) GSI() (GSIDefinition, bool) {
	if len(t.GSIs) == 0 {
		return GSIDefinition{}, false
	}
	return t.GSIs[0], true
}

// Key builds the primary key of the table for the given values.
func (t TableDefinition) Key(pk, sk string) PrimaryKey {
	return t.Keys.Key(pk, sk)
}

// ExtractPrimaryKey reads the base table key of an item.
func (t TableDefinition) ExtractPrimaryKey(doc map[string]types.AttributeValue) (PrimaryKey, error) {
	return t.Keys.Extract(doc)
}

// ExtractPrimaryKey reads the index key of an item.
func (g GSIDefinition) ExtractPrimaryKey(doc map[string]types.AttributeValue) (PrimaryKey, error) {
	return g.Keys.Extract(doc)
}
