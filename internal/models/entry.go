package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PainEntry is a single user-recorded (date, pain level, notes) observation.
// Entries are created once and never edited; the owner may delete them.
type PainEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	// UserID is the owning user; every query filters on it.
	UserID string `bson:"user_id" json:"user_id"`

	// Level is the pain level, 0-10 inclusive.
	Level int `bson:"level" json:"level"`

	// EntryDate is the user-selected observation date. It may differ from
	// CreatedAt, which is set server-side at write time.
	EntryDate time.Time `bson:"entry_date" json:"entry_date"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}
