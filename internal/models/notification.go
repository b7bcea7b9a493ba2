package models

import "time"

// Notification represents a persisted system alert in the shared feed
// (MongoDB). Created by external event producers (report submissions and the
// like); the console only marks items read or soft-deletes them.
type Notification struct {
	ID      string `json:"id" bson:"_id"`
	Type    string `json:"type" bson:"type"`
	Message string `json:"message" bson:"message"`
	IsRead  bool   `json:"isRead" bson:"isRead"`

	// Deleted is a soft-delete flag; flagged items stay in the store but
	// disappear from the active feed.
	Deleted bool `json:"-" bson:"deleted"`

	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	// Domain-specific fields attached by rescue-report producers.
	AnimalType      string `json:"animalType,omitempty" bson:"animalType,omitempty"`
	UrgencyLevel    string `json:"urgencyLevel,omitempty" bson:"urgencyLevel,omitempty"`
	LocationAddress string `json:"locationAddress,omitempty" bson:"locationAddress,omitempty"`
}
