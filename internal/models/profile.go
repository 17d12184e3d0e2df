package models

import "time"

// Profile is a user's display profile, stored under the user's account ID.
// Created lazily on first read if absent; only the owner may read or write it.
type Profile struct {
	// ID equals the account ID from the identity store.
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Email is copied from the account at creation and not editable here.
	Email string `bson:"email" json:"email"`

	// DisplayName is user-editable, 2-50 characters.
	DisplayName string `bson:"display_name" json:"display_name"`

	// PhotoURL points into the blob store; empty when no photo is set.
	PhotoURL string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
}
