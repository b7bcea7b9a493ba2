package registry

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pawhaven/rescue-console/backend/internal/models"
)

// AccountStore defines the interface for account data operations. Three
// kinds map to three independent store namespaces.
type AccountStore interface {
	Get(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
	List(ctx context.Context, kind models.AccountKind) ([]models.Account, error)
	Update(ctx context.Context, kind models.AccountKind, id string, fields map[string]any) error
	Delete(ctx context.Context, kind models.AccountKind, id string) error
}

// Recorder accepts audit events. Implementations must never fail the caller:
// a failed audit write is swallowed and surfaced through diagnostics only.
type Recorder interface {
	Record(ctx context.Context, event models.AuditEvent)
}

// TransitionOptions modify a status transition.
type TransitionOptions struct {
	// Force bypasses the reactivation cooldown; always audited at
	// Warning severity.
	Force bool
}

// ListFilter narrows the unioned account listing.
type ListFilter struct {
	Kind       models.AccountKind
	Status     models.AccountStatus
	SearchText string
}

// Service owns account lifecycle operations across the three collections.
type Service struct {
	store        AccountStore
	audit        Recorder
	cooldownDays atomic.Int64
	now          func() time.Time
}

// NewService creates an account registry over the given store and audit
// recorder. cooldownDays gates reactivation of Inactive accounts.
func NewService(store AccountStore, audit Recorder, cooldownDays int) *Service {
	s := &Service{
		store: store,
		audit: audit,
		now:   time.Now,
	}
	s.cooldownDays.Store(int64(cooldownDays))
	return s
}

// SetCooldownDays applies an updated cooldown, effective for subsequent
// transitions. Called when an admin saves new system settings.
func (s *Service) SetCooldownDays(days int) {
	s.cooldownDays.Store(int64(days))
}

// CooldownDays returns the cooldown currently in force.
func (s *Service) CooldownDays() int {
	return int(s.cooldownDays.Load())
}

// TransitionStatus moves an account to targetStatus, enforcing the
// reactivation cooldown and deriving kind-specific side effects. On success
// exactly one audit event is emitted; guard failures emit none. The
// persistence write and the audit append are not atomic: an audit failure
// never rolls back the transition.
func (s *Service) TransitionStatus(ctx context.Context, kind models.AccountKind, id string, targetStatus models.AccountStatus, actor models.Actor, opts TransitionOptions) (*models.Account, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	if kind.Collection() == "" {
		return nil, validationErr("unknown account kind %q", kind)
	}
	if _, err := models.ParseAccountStatus(targetStatus.String()); err != nil {
		return nil, validationErr("unknown target status %q", targetStatus)
	}

	account, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := transitionAllowed(account, targetStatus, opts.Force, now, s.CooldownDays()); err != nil {
		return nil, err
	}

	oldStatus := account.Status
	fields := map[string]any{
		"status":    targetStatus.String(),
		"updatedAt": now,
	}
	account.Status = targetStatus
	account.UpdatedAt = now

	if targetStatus == models.StatusInactive {
		fields["deactivatedAt"] = now
		account.DeactivatedAt = &now
	} else if oldStatus == models.StatusInactive {
		fields["deactivatedAt"] = nil
		account.DeactivatedAt = nil
	}

	if kind == models.KindShelter {
		verified := targetStatus == models.StatusActive
		fields["verified"] = verified
		account.Verified = verified
	}

	if opts.Force {
		fields["forceActivatedBy"] = actor.ID
		fields["forceActivatedAt"] = now
		account.ForceActivatedBy = actor.ID
		account.ForceActivatedAt = &now
	}

	if err := s.store.Update(ctx, kind, id, fields); err != nil {
		return nil, &StoreWriteError{Op: "transition status", Err: err}
	}

	severity := models.SeverityInfo
	action := fmt.Sprintf("Changed %s status from %s to %s", kind, oldStatus, targetStatus)
	if opts.Force {
		severity = models.SeverityWarning
		action = fmt.Sprintf("Force-activated %s, bypassing reactivation cooldown", kind)
	}
	s.audit.Record(ctx, models.AuditEvent{
		Type:              models.AuditUserManagement,
		Action:            action,
		Severity:          severity,
		ActorID:           actor.ID,
		ActorEmail:        actor.Email,
		ActorRole:         actor.Role,
		TargetDescription: fmt.Sprintf("%s %s (%s)", kind, account.ID, account.Email),
		Details:           action,
		Metadata: map[string]any{
			"accountType": kind.String(),
			"oldStatus":   oldStatus.String(),
			"newStatus":   targetStatus.String(),
			"force":       opts.Force,
		},
		Timestamp: now,
	})

	return account, nil
}

// ForceActivate bypasses the reactivation cooldown. The console exposes it
// as a separate, intentionally dangerous control rather than a default path.
func (s *Service) ForceActivate(ctx context.Context, kind models.AccountKind, id string, actor models.Actor) (*models.Account, error) {
	return s.TransitionStatus(ctx, kind, id, models.StatusActive, actor, TransitionOptions{Force: true})
}

// DeleteAccount permanently removes the record. There is no soft-delete
// marker; the audit event carries a snapshot of the account since the record
// will no longer be queryable afterwards.
func (s *Service) DeleteAccount(ctx context.Context, kind models.AccountKind, id string, actor models.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	if kind.Collection() == "" {
		return validationErr("unknown account kind %q", kind)
	}

	account, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, kind, id); err != nil {
		return &StoreWriteError{Op: "delete account", Err: err}
	}

	s.audit.Record(ctx, models.AuditEvent{
		Type:              models.AuditUserManagement,
		Action:            fmt.Sprintf("Deleted %s", kind),
		Severity:          models.SeverityWarning,
		ActorID:           actor.ID,
		ActorEmail:        actor.Email,
		ActorRole:         actor.Role,
		TargetDescription: fmt.Sprintf("%s %s (%s)", kind, account.ID, account.Email),
		Details:           fmt.Sprintf("Permanently deleted %s %s", kind, account.ID),
		Metadata: map[string]any{
			"accountType": kind.String(),
			"displayName": account.DisplayName,
			"email":       account.Email,
			"lastStatus":  account.Status.String(),
		},
		Timestamp: s.now(),
	})

	return nil
}

// ListAccounts returns the unioned view across collections, optionally
// narrowed by kind, status and a case-insensitive search over name, email
// and location. Full scan; the console operates at hundreds to low
// thousands of accounts.
func (s *Service) ListAccounts(ctx context.Context, filter ListFilter) ([]models.Account, error) {
	kinds := []models.AccountKind{models.KindUser, models.KindShelter, models.KindRescuer}
	if filter.Kind != "" {
		if filter.Kind.Collection() == "" {
			return nil, validationErr("unknown account kind %q", filter.Kind)
		}
		kinds = []models.AccountKind{filter.Kind}
	}

	search := strings.ToLower(strings.TrimSpace(filter.SearchText))
	accounts := make([]models.Account, 0)
	for _, kind := range kinds {
		list, err := s.store.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, account := range list {
			if filter.Status != "" && account.Status != filter.Status {
				continue
			}
			if search != "" && !matchesSearch(&account, search) {
				continue
			}
			// Tag the unioned view here so the contract holds for any
			// AccountStore, not just ones that pre-fill these fields.
			account.Kind = kind
			account.Collection = kind.Collection()
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func matchesSearch(account *models.Account, search string) bool {
	return strings.Contains(strings.ToLower(account.DisplayName), search) ||
		strings.Contains(strings.ToLower(account.Email), search) ||
		strings.Contains(strings.ToLower(account.Location), search)
}

func validateActor(actor models.Actor) error {
	if strings.TrimSpace(actor.ID) == "" || strings.TrimSpace(actor.Email) == "" {
		return validationErr("actor identity is required for audit attribution")
	}
	return nil
}
