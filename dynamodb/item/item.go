// Package item defines the one physical record shape of the team status table.
// Every domain entity is stored as a GenericItem; the entity kind is carried
// by ItemType and its attributes by the opaque Data map.
package item

import (
	"fmt"
	"time"
)

// GenericItem is the persisted record. Field names are part of the wire format.
type GenericItem struct {
	PK string `dynamodbav:"PK" json:"PK"`
	SK string `dynamodbav:"SK" json:"SK"`
	// GSI1PK and GSI1SK are derived from the entity on every encode.
	// Items without a secondary access pattern leave both nil and stay out of the index.
	GSI1PK   *string        `dynamodbav:"GSI1PK,omitempty" json:"GSI1PK,omitempty"`
	GSI1SK   *string        `dynamodbav:"GSI1SK,omitempty" json:"GSI1SK,omitempty"`
	ItemType string         `dynamodbav:"ItemType" json:"ItemType"`
	Data     map[string]any `dynamodbav:"Data" json:"Data"`

	CreatedAt time.Time `dynamodbav:"CreatedAt" json:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt" json:"UpdatedAt"`
	// TTL is the expiry instant in epoch seconds, nil never expires.
	TTL *int64 `dynamodbav:"TTL,omitempty" json:"TTL,omitempty"`
}

// HasIndexKeys reports whether the item is projected into the secondary index.
func (it GenericItem) HasIndexKeys() bool {
	return it.GSI1PK != nil && it.GSI1SK != nil
}

// ExpiresAt returns the expiry instant, or nil if the item never expires.
func (it GenericItem) ExpiresAt() *time.Time {
	if it.TTL == nil {
		return nil
	}
	t := time.Unix(*it.TTL, 0).UTC()
	return &t
}

// IsExpired reports whether the item is logically deleted at now.
// An item expires at the TTL instant itself, not after it.
func (it GenericItem) IsExpired(now time.Time) bool {
	exp := it.ExpiresAt()
	return exp != nil && !now.Before(*exp)
}

// Validate checks the structural invariants of an item.
func (it GenericItem) Validate() error {
	if it.PK == "" {
		return fmt.Errorf("item has empty %s", "PK")
	}
	if it.SK == "" {
		return fmt.Errorf("item %s has empty SK", it.PK)
	}
	if it.ItemType == "" {
		return fmt.Errorf("item %s/%s has empty ItemType", it.PK, it.SK)
	}
	if (it.GSI1PK == nil) != (it.GSI1SK == nil) {
		return fmt.Errorf("item %s/%s must set both or none of GSI1PK and GSI1SK", it.PK, it.SK)
	}
	if it.GSI1PK != nil && (*it.GSI1PK == "" || *it.GSI1SK == "") {
		return fmt.Errorf("item %s/%s has empty index keys", it.PK, it.SK)
	}
	if it.CreatedAt.IsZero() || it.UpdatedAt.IsZero() {
		return fmt.Errorf("item %s/%s has unset timestamps", it.PK, it.SK)
	}
	if it.UpdatedAt.Before(it.CreatedAt) {
		return fmt.Errorf("item %s/%s updated at %s before it was created at %s", it.PK, it.SK, it.UpdatedAt, it.CreatedAt)
	}
	return nil
}

// Ptr is a helper for the optional key fields.
func Ptr[T any](v T) *T {
	return &v
}
