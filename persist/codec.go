// ABOUTME: JSON encoding of the persisted CRM snapshot
// ABOUTME: Writes the five collections plus currentUser; transient flags are excluded
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// ErrInvalidSnapshot is returned when persisted data cannot be used.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// snapshot is the on-disk shape. Every collection is always written, even
// when empty, so a reader can tell "empty" from "missing".
type snapshot struct {
	Users       []models.User     `json:"users"`
	Companies   []models.Company  `json:"companies"`
	Contacts    []models.Contact  `json:"contacts"`
	Deals       []models.Deal     `json:"deals"`
	Activities  []models.Activity `json:"activities"`
	CurrentUser *models.User      `json:"currentUser"`
}

// EncodeSnapshot serialises the persisted fields of s.
func EncodeSnapshot(s store.State) ([]byte, error) {
	return json.Marshal(snapshot{
		Users:       nonNil(s.Users),
		Companies:   nonNil(s.Companies),
		Contacts:    nonNil(s.Contacts),
		Deals:       nonNil(s.Deals),
		Activities:  nonNil(s.Activities),
		CurrentUser: s.CurrentUser,
	})
}

// DecodeSnapshot parses persisted data into a load_data payload. Timestamps
// come back as time.Time values. Data without a users collection is rejected.
func DecodeSnapshot(data []byte) (store.Partial, error) {
	var p store.Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return store.Partial{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if p.Users == nil {
		return store.Partial{}, fmt.Errorf("%w: missing users", ErrInvalidSnapshot)
	}
	return p, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
