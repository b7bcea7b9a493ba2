package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	accounts  map[string]models.Account
	updates   []map[string]any
	deleted   []string
	updateErr error
	deleteErr error
}

func newFakeStore(accounts ...models.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[string]models.Account)}
	for _, a := range accounts {
		s.accounts[a.Kind.Collection()+"/"+a.ID] = a
	}
	return s
}

func (s *fakeStore) Get(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	account, ok := s.accounts[kind.Collection()+"/"+id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context, kind models.AccountKind) ([]models.Account, error) {
	var list []models.Account
	for _, account := range s.accounts {
		if account.Kind == kind {
			list = append(list, account)
		}
	}
	return list, nil
}

func (s *fakeStore) Update(ctx context.Context, kind models.AccountKind, id string, fields map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, fields)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, kind models.AccountKind, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, kind.Collection()+"/"+id)
	return nil
}

type fakeRecorder struct {
	events []models.AuditEvent
}

func (r *fakeRecorder) Record(ctx context.Context, event models.AuditEvent) {
	r.events = append(r.events, event)
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testActor() models.Actor {
	return models.Actor{ID: "admin-1", Email: "admin@pawhaven.org", Role: "super-admin"}
}

func inactiveAccount(kind models.AccountKind, daysAgo int) models.Account {
	deactivated := testNow.AddDate(0, 0, -daysAgo)
	return models.Account{
		ID:            "acct-1",
		Kind:          kind,
		DisplayName:   "Meadow Shelter",
		Email:         "contact@meadow.org",
		Status:        models.StatusInactive,
		DeactivatedAt: &deactivated,
	}
}

func newTestService(store AccountStore, rec Recorder) *Service {
	svc := NewService(store, rec, 30)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestTransitionCooldownEnforced(t *testing.T) {
	store := newFakeStore(inactiveAccount(models.KindUser, 10))
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	_, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusActive, testActor(), TransitionOptions{})

	var cooldown *CooldownActiveError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, 20, cooldown.DaysRemaining)
	assert.Empty(t, store.updates, "no mutation may occur on a guard failure")
	assert.Empty(t, rec.events, "guard failures emit no audit event")
}

func TestTransitionCooldownBoundary(t *testing.T) {
	t.Run("exactly 30 days permits reactivation", func(t *testing.T) {
		store := newFakeStore(inactiveAccount(models.KindUser, 30))
		rec := &fakeRecorder{}
		svc := newTestService(store, rec)

		account, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusActive, testActor(), TransitionOptions{})
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, account.Status)
		assert.Nil(t, account.DeactivatedAt)
	})

	t.Run("29 days is still blocked", func(t *testing.T) {
		store := newFakeStore(inactiveAccount(models.KindUser, 29))
		rec := &fakeRecorder{}
		svc := newTestService(store, rec)

		_, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusActive, testActor(), TransitionOptions{})
		var cooldown *CooldownActiveError
		require.ErrorAs(t, err, &cooldown)
		assert.Equal(t, 1, cooldown.DaysRemaining)
	})
}

func TestSetCooldownDaysTakesEffect(t *testing.T) {
	store := newFakeStore(inactiveAccount(models.KindUser, 10))
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)
	ctx := context.Background()

	_, err := svc.TransitionStatus(ctx, models.KindUser, "acct-1", models.StatusActive, testActor(), TransitionOptions{})
	var cooldown *CooldownActiveError
	require.ErrorAs(t, err, &cooldown)

	// An admin shortening the cooldown applies to the next transition.
	svc.SetCooldownDays(7)
	assert.Equal(t, 7, svc.CooldownDays())

	account, err := svc.TransitionStatus(ctx, models.KindUser, "acct-1", models.StatusActive, testActor(), TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, account.Status)
}

func TestForceActivateBypassesCooldown(t *testing.T) {
	store := newFakeStore(inactiveAccount(models.KindUser, 10))
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	account, err := svc.ForceActivate(context.Background(), models.KindUser, "acct-1", testActor())
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, account.Status)
	assert.Nil(t, account.DeactivatedAt, "leaving Inactive clears deactivatedAt")
	assert.Equal(t, "admin-1", account.ForceActivatedBy)
	require.NotNil(t, account.ForceActivatedAt)

	require.Len(t, store.updates, 1)
	fields := store.updates[0]
	assert.Equal(t, "Active", fields["status"])
	assert.Contains(t, fields, "deactivatedAt")
	assert.Nil(t, fields["deactivatedAt"])
	assert.Equal(t, "admin-1", fields["forceActivatedBy"])

	require.Len(t, rec.events, 1)
	event := rec.events[0]
	assert.Equal(t, models.AuditUserManagement, event.Type)
	assert.Equal(t, models.SeverityWarning, event.Severity, "forced transitions are logged at elevated severity")
	assert.Equal(t, true, event.Metadata["force"])
}

func TestTransitionIntoInactiveSetsDeactivatedAt(t *testing.T) {
	store := newFakeStore(models.Account{
		ID:     "acct-1",
		Kind:   models.KindRescuer,
		Email:  "r@pawhaven.org",
		Status: models.StatusActive,
	})
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	account, err := svc.TransitionStatus(context.Background(), models.KindRescuer, "acct-1", models.StatusInactive, testActor(), TransitionOptions{})
	require.NoError(t, err)

	require.NotNil(t, account.DeactivatedAt)
	assert.Equal(t, testNow, *account.DeactivatedAt)
	require.Len(t, store.updates, 1)
	assert.Equal(t, testNow, store.updates[0]["deactivatedAt"])
}

func TestShelterVerifiedDerivation(t *testing.T) {
	for _, tc := range []struct {
		target   models.AccountStatus
		verified bool
	}{
		{models.StatusActive, true},
		{models.StatusSuspended, false},
		{models.StatusRejected, false},
		{models.StatusPending, false},
	} {
		t.Run(tc.target.String(), func(t *testing.T) {
			store := newFakeStore(models.Account{
				ID:       "shelter-1",
				Kind:     models.KindShelter,
				Email:    "shelter@pawhaven.org",
				Status:   models.StatusPending,
				Verified: !tc.verified, // prior value must not matter
			})
			rec := &fakeRecorder{}
			svc := newTestService(store, rec)

			account, err := svc.TransitionStatus(context.Background(), models.KindShelter, "shelter-1", tc.target, testActor(), TransitionOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.verified, account.Verified)
			require.Len(t, store.updates, 1)
			assert.Equal(t, tc.verified, store.updates[0]["verified"])
		})
	}
}

type failingAuditStore struct{}

func (failingAuditStore) Append(ctx context.Context, event *models.AuditEvent) error {
	return errors.New("audit store unavailable")
}

func (failingAuditStore) Query(ctx context.Context, filter audit.Filter) ([]models.AuditEvent, error) {
	return nil, nil
}

func TestAuditFailOpen(t *testing.T) {
	store := newFakeStore(models.Account{
		ID:     "acct-1",
		Kind:   models.KindUser,
		Email:  "u@pawhaven.org",
		Status: models.StatusActive,
	})
	trail := audit.NewTrail(failingAuditStore{})
	svc := newTestService(store, trail)

	account, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusSuspended, testActor(), TransitionOptions{})
	require.NoError(t, err, "an audit write failure must not fail the business operation")
	assert.Equal(t, models.StatusSuspended, account.Status)
	require.Len(t, store.updates, 1, "the status change is persisted despite the audit failure")
}

func TestDeleteAccountAuditsSnapshot(t *testing.T) {
	store := newFakeStore(models.Account{
		ID:          "shelter-1",
		Kind:        models.KindShelter,
		DisplayName: "Meadow Shelter",
		Email:       "shelter@pawhaven.org",
		Status:      models.StatusSuspended,
	})
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	require.NoError(t, svc.DeleteAccount(context.Background(), models.KindShelter, "shelter-1", testActor()))
	assert.Equal(t, []string{"shelters/shelter-1"}, store.deleted)

	require.Len(t, rec.events, 1)
	event := rec.events[0]
	assert.Equal(t, models.SeverityWarning, event.Severity)
	assert.Equal(t, "Deleted Shelter", event.Action)
	assert.Equal(t, "Meadow Shelter", event.Metadata["displayName"])
	assert.Equal(t, "shelter@pawhaven.org", event.Metadata["email"])
	assert.Equal(t, "Suspended", event.Metadata["lastStatus"])
}

func TestMissingActorRejected(t *testing.T) {
	store := newFakeStore(inactiveAccount(models.KindUser, 60))
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	_, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusActive, models.Actor{}, TransitionOptions{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.updates)
	assert.Empty(t, rec.events)

	err = svc.DeleteAccount(context.Background(), models.KindUser, "acct-1", models.Actor{Email: "x@y.z"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.deleted)
}

func TestTransitionNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeRecorder{})
	_, err := svc.TransitionStatus(context.Background(), models.KindUser, "ghost", models.StatusActive, testActor(), TransitionOptions{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreWriteErrorFailsWhole(t *testing.T) {
	store := newFakeStore(models.Account{
		ID:     "acct-1",
		Kind:   models.KindUser,
		Email:  "u@pawhaven.org",
		Status: models.StatusActive,
	})
	store.updateErr = errors.New("connection reset")
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)

	_, err := svc.TransitionStatus(context.Background(), models.KindUser, "acct-1", models.StatusSuspended, testActor(), TransitionOptions{})
	var writeErr *StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Empty(t, rec.events, "a failed persistence write emits no audit event")
}

func TestListAccountsUnionAndFilters(t *testing.T) {
	store := newFakeStore(
		models.Account{ID: "u1", Kind: models.KindUser, DisplayName: "Ada", Email: "ada@x.org", Status: models.StatusActive},
		models.Account{ID: "s1", Kind: models.KindShelter, DisplayName: "Meadow Shelter", Email: "m@x.org", Location: "Portland", Status: models.StatusPending},
		models.Account{ID: "r1", Kind: models.KindRescuer, DisplayName: "Ben", Email: "ben@x.org", Location: "Seattle", Status: models.StatusActive},
	)
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	all, err := svc.ListAccounts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Every entry is tagged with kind and the legacy collection field,
	// regardless of what the store filled in.
	for _, account := range all {
		assert.NotEmpty(t, account.Kind)
		assert.Equal(t, account.Kind.Collection(), account.Collection)
	}

	shelters, err := svc.ListAccounts(ctx, ListFilter{Kind: models.KindShelter})
	require.NoError(t, err)
	require.Len(t, shelters, 1)
	assert.Equal(t, models.KindShelter, shelters[0].Kind)
	assert.Equal(t, "shelters", shelters[0].Collection)

	active, err := svc.ListAccounts(ctx, ListFilter{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// search matches name, email and location, case-insensitively
	byLocation, err := svc.ListAccounts(ctx, ListFilter{SearchText: "portLAND"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "s1", byLocation[0].ID)

	byEmail, err := svc.ListAccounts(ctx, ListFilter{SearchText: "ada@"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "u1", byEmail[0].ID)
}
