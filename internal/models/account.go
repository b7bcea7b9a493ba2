package models

import (
	"fmt"
	"strings"
	"time"
)

// AccountKind identifies which of the three account namespaces a record
// belongs to.
type AccountKind string

const (
	KindUser    AccountKind = "User"
	KindShelter AccountKind = "Shelter"
	KindRescuer AccountKind = "Rescuer"
)

// String returns the string representation of AccountKind
func (k AccountKind) String() string {
	return string(k)
}

// Collection returns the store collection name backing this kind.
func (k AccountKind) Collection() string {
	switch k {
	case KindUser:
		return "users"
	case KindShelter:
		return "shelters"
	case KindRescuer:
		return "rescuers"
	}
	return ""
}

// ParseAccountKind normalizes a loosely-cased kind string into the closed enum.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "users":
		return KindUser, nil
	case "shelter", "shelters":
		return KindShelter, nil
	case "rescuer", "rescuers":
		return KindRescuer, nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "Active"
	StatusInactive  AccountStatus = "Inactive"
	StatusSuspended AccountStatus = "Suspended"
	StatusPending   AccountStatus = "Pending"
	StatusRejected  AccountStatus = "Rejected"
)

// String returns the string representation of AccountStatus
func (s AccountStatus) String() string {
	return string(s)
}

// ParseAccountStatus normalizes a status string to the closed enum. The
// upstream store contains mixed-case values ("active", "Active"), so parsing
// is case-insensitive; unknown values are rejected rather than propagated.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	case "suspended":
		return StatusSuspended, nil
	case "pending":
		return StatusPending, nil
	case "rejected":
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown account status %q", s)
}

// Account is the normalized view of a record from any of the three account
// collections, tagged with its kind. Kind-specific fields (Verified,
// Location) are zero-valued for kinds that do not carry them.
type Account struct {
	ID          string        `json:"id"`
	Kind        AccountKind   `json:"kind"`
	DisplayName string        `json:"displayName"`
	Email       string        `json:"email"`
	Location    string        `json:"location,omitempty"`
	Status      AccountStatus `json:"status"`

	// Verified is meaningful only for shelters; it is derived from status
	// on every transition (true iff Active).
	Verified bool `json:"verified"`

	// DeactivatedAt is non-nil only while the account's most recent
	// transition into Inactive has not been superseded.
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`

	ForceActivatedBy string     `json:"forceActivatedBy,omitempty"`
	ForceActivatedAt *time.Time `json:"forceActivatedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Collection is the legacy routing field consumed by the console UI.
	Collection string `json:"collection"`
}

// Actor identifies the administrator performing a privileged operation, for
// audit attribution.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
