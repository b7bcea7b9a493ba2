package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountStatusNormalizesCase(t *testing.T) {
	for raw, want := range map[string]AccountStatus{
		"Active":    StatusActive,
		"active":    StatusActive,
		" ACTIVE ":  StatusActive,
		"inactive":  StatusInactive,
		"Suspended": StatusSuspended,
		"pending":   StatusPending,
		"Rejected":  StatusRejected,
	} {
		status, err := ParseAccountStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, status)
	}
}

func TestParseAccountStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "deleted", "aktive", "enabled"} {
		_, err := ParseAccountStatus(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseAccountKind(t *testing.T) {
	for raw, want := range map[string]AccountKind{
		"user":     KindUser,
		"Users":    KindUser,
		"shelter":  KindShelter,
		"shelters": KindShelter,
		"Rescuer":  KindRescuer,
	} {
		kind, err := ParseAccountKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, kind)
	}

	_, err := ParseAccountKind("admin")
	assert.Error(t, err)
}

func TestKindCollections(t *testing.T) {
	assert.Equal(t, "users", KindUser.Collection())
	assert.Equal(t, "shelters", KindShelter.Collection())
	assert.Equal(t, "rescuers", KindRescuer.Collection())
	assert.Empty(t, AccountKind("Admin").Collection())
}
