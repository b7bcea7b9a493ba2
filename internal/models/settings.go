package models

import "time"

// SystemSettings is the console-wide configuration, persisted as a single
// document so setting groups are never partially applied.
type SystemSettings struct {
	ID string `json:"-" bson:"_id"`

	// ReactivationCooldownDays gates transitions from Inactive back to
	// Active without a force override.
	ReactivationCooldownDays int `json:"reactivationCooldownDays" bson:"reactivationCooldownDays" validate:"min=0,max=365"`

	ToastDurationMillis int    `json:"toastDurationMillis" bson:"toastDurationMillis" validate:"min=1000,max=60000"`
	FeedPageSize        int    `json:"feedPageSize" bson:"feedPageSize" validate:"min=1,max=200"`
	MaintenanceBanner   string `json:"maintenanceBanner" bson:"maintenanceBanner" validate:"max=500"`

	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy string    `json:"updatedBy" bson:"updatedBy"`
}

// DefaultSystemSettings returns the settings applied before an admin has
// saved any.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		ID:                       "system",
		ReactivationCooldownDays: 30,
		ToastDurationMillis:      5000,
		FeedPageSize:             50,
	}
}
