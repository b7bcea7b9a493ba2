package registry

import (
	"time"

	"github.com/pawhaven/rescue-console/backend/internal/models"
)

// transitionAllowed decides whether an account may move to target. The
// registry is deliberately permissive: any source/target pair is legal except
// reactivating an Inactive account inside the cooldown window without force.
// All legality checks are concentrated here so a stricter transition graph
// can be substituted without touching call sites.
func transitionAllowed(account *models.Account, target models.AccountStatus, force bool, now time.Time, cooldownDays int) error {
	if account.Status != models.StatusInactive || target != models.StatusActive || force {
		return nil
	}
	if account.DeactivatedAt == nil {
		return nil
	}
	daysSince := int(now.Sub(*account.DeactivatedAt).Hours() / 24)
	if daysSince < cooldownDays {
		return &CooldownActiveError{DaysRemaining: cooldownDays - daysSince}
	}
	return nil
}
