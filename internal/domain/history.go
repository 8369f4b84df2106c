package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

type HistoryAction string

const (
	ActionCreated HistoryAction = "created"
	ActionUpdated HistoryAction = "updated"
	ActionDeleted HistoryAction = "deleted"
)

// EquipmentHistory is an append-only audit record of one equipment mutation.
// There is deliberately no foreign key on EquipmentID: the "deleted" row is
// written just before the equipment row disappears and must outlive it.
type EquipmentHistory struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	EquipmentID int64         `json:"equipment_id" gorm:"index"`
	Action      HistoryAction `json:"action"`
	Details     *string       `json:"details,omitempty"`
	UserID      int64         `json:"user_id"`
	Timestamp   time.Time     `json:"timestamp"`
}

func (EquipmentHistory) TableName() string { return "equipment_history" }

// FieldChange records one tracked field going from one value to another.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// DeletedSnapshot is the state captured from the live joined record just
// before a delete, with the category already resolved to its name.
type DeletedSnapshot struct {
	Name            string `json:"name"`
	InventoryNumber string `json:"inventory_number"`
	Category        string `json:"category"`
	Room            string `json:"room"`
}

// ComputeDiff compares the tracked fields of two equipment records and
// returns the changes in a fixed order: name, inventoryNumber, categoryId,
// room. An empty result means the update touched nothing an auditor cares
// about. Category IDs are compared as IDs, not resolved names.
func ComputeDiff(old, updated *Equipment) []FieldChange {
	var changes []FieldChange

	if old.Name != updated.Name {
		changes = append(changes, FieldChange{Field: "name", From: old.Name, To: updated.Name})
	}
	if old.InventoryNumber != updated.InventoryNumber {
		changes = append(changes, FieldChange{
			Field: "inventoryNumber",
			From:  old.InventoryNumber,
			To:    updated.InventoryNumber,
		})
	}
	if old.CategoryID != updated.CategoryID {
		changes = append(changes, FieldChange{
			Field: "categoryId",
			From:  formatID(old.CategoryID),
			To:    formatID(updated.CategoryID),
		})
	}
	if old.Room != updated.Room {
		changes = append(changes, FieldChange{Field: "room", From: old.Room, To: updated.Room})
	}

	return changes
}

// Snapshot builds the delete-time snapshot. The caller must pass the record
// with its category preloaded; a missing category resolves to an empty name.
func Snapshot(e *Equipment) DeletedSnapshot {
	s := DeletedSnapshot{
		Name:            e.Name,
		InventoryNumber: e.InventoryNumber,
		Room:            e.Room,
	}
	if e.Category != nil {
		s.Category = e.Category.Name
	}
	return s
}

// MarshalDetails serializes a diff or snapshot into the opaque blob stored
// on the history row. It is display-only, never queried.
func MarshalDetails(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
