package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a one-shot user submission with optional image attachments.
// Write-only from the client; there is no read endpoint in this API.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID    string `bson:"user_id" json:"user_id"`
	UserEmail string `bson:"user_email" json:"user_email"`

	// Feedback content, minimum 10 characters.
	Feedback string `bson:"feedback" json:"feedback"`

	// AttachmentURLs holds 0-3 blob store URLs in upload order. Only the
	// uploads that succeeded are recorded.
	AttachmentURLs []string `bson:"attachment_urls,omitempty" json:"attachment_urls,omitempty"`
}
