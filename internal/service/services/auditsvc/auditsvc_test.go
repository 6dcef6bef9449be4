package auditsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmarun/dispatch/internal/service/models/auditlog"
	"github.com/pharmarun/dispatch/internal/service/models/driver"
	"github.com/pharmarun/dispatch/internal/service/models/status"
	"github.com/pharmarun/dispatch/internal/session"
)

type memAuditRepo struct {
	entries   []auditlog.Entry
	insertErr error
	patched   []int64
	patchErr  error
	queryErr  error
}

func (r *memAuditRepo) Insert(_ context.Context, entry auditlog.Entry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, entry)

	return nil
}

func (r *memAuditRepo) PatchLatestLocation(_ context.Context, orderID int64, _, _, _ *string) error {
	if r.patchErr != nil {
		return r.patchErr
	}
	r.patched = append(r.patched, orderID)

	return nil
}

func (r *memAuditRepo) QueryByOrder(_ context.Context, orderID int64, limit int) ([]auditlog.Entry, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}

	// newest first, as the real repository orders them
	var out []auditlog.Entry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].OrderID == orderID {
			out = append(out, r.entries[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

type memDriverRepo struct {
	drivers map[int64]*driver.Driver
}

func (r *memDriverRepo) GetByID(_ context.Context, id int64) (*driver.Driver, error) {
	d, ok := r.drivers[id]
	if !ok {
		return nil, driver.ErrDriverNotFound
	}

	return d, nil
}

func newService(repo *memAuditRepo, drivers map[int64]*driver.Driver) *AuditService {
	return MustNewAuditService(
		WithAuditRepository(repo),
		WithDriverRepository(&memDriverRepo{drivers: drivers}),
	)
}

func TestAppendResolvesActorFromSession(t *testing.T) {
	repo := &memAuditRepo{}
	svc := newService(repo, map[int64]*driver.Driver{
		7: {ID: 7, DisplayName: "Tunde Bello", Role: "driver"},
	})

	actorID := int64(7)
	ctx := session.WithSession(context.Background(), session.New(&actorID, "sess-1"))

	svc.Append(ctx, auditlog.AppendParams{
		OrderID: 1,
		Action:  status.ActionOrderConfirmed,
	})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, int64(7), *entry.ActorID)
	assert.Equal(t, "Tunde Bello", entry.ActorName)
	assert.Equal(t, "driver", entry.ActorRole)
	assert.Equal(t, "sess-1", entry.SessionID)
	assert.True(t, entry.ConsentVerified)
}

func TestAppendFallsBackToUnknownActor(t *testing.T) {
	repo := &memAuditRepo{}
	svc := newService(repo, nil)

	// actor id present but the lookup fails
	actorID := int64(42)
	ctx := session.WithSession(context.Background(), session.New(&actorID, "sess-2"))
	svc.Append(ctx, auditlog.AppendParams{OrderID: 1, Action: status.ActionOrderShipped})

	// no session at all
	svc.Append(context.Background(), auditlog.AppendParams{OrderID: 2, Action: status.ActionPHIAccessed})

	require.Len(t, repo.entries, 2)
	for _, entry := range repo.entries {
		assert.Equal(t, "Unknown User", entry.ActorName)
		assert.Equal(t, "unknown", entry.ActorRole)
	}
	assert.Nil(t, repo.entries[1].ActorID)
}

func TestAppendSwallowsInsertFailure(t *testing.T) {
	repo := &memAuditRepo{insertErr: errors.New("db down")}
	svc := newService(repo, nil)

	assert.NotPanics(t, func() {
		svc.Append(context.Background(), auditlog.AppendParams{OrderID: 1, Action: status.ActionStatusChange})
	})
	assert.Empty(t, repo.entries)
}

func TestPatchLatestLocationSwallowsFailure(t *testing.T) {
	repo := &memAuditRepo{patchErr: errors.New("db down")}
	svc := newService(repo, nil)

	assert.NotPanics(t, func() {
		svc.PatchLatestLocation(context.Background(), 1, nil, nil, nil)
	})

	repo.patchErr = nil
	svc.PatchLatestLocation(context.Background(), 1, nil, nil, nil)
	assert.Equal(t, []int64{1}, repo.patched)
}

func TestGetAuditTrail(t *testing.T) {
	repo := &memAuditRepo{}
	svc := newService(repo, nil)

	svc.Append(context.Background(), auditlog.AppendParams{OrderID: 1, Action: status.ActionOrderAssigned})
	svc.Append(context.Background(), auditlog.AppendParams{OrderID: 2, Action: status.ActionOrderConfirmed})
	svc.Append(context.Background(), auditlog.AppendParams{OrderID: 1, Action: status.ActionOrderConfirmed})

	entries, err := svc.GetAuditTrail(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, status.ActionOrderConfirmed, entries[0].Action)
	assert.Equal(t, status.ActionOrderAssigned, entries[1].Action)

	entries, err = svc.GetAuditTrail(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, status.ActionOrderConfirmed, entries[0].Action)
}

func TestGetAuditTrailPropagatesError(t *testing.T) {
	repo := &memAuditRepo{queryErr: errors.New("db down")}
	svc := newService(repo, nil)

	_, err := svc.GetAuditTrail(context.Background(), 1, 0)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to get audit trail")
}

func TestClassifyDevice(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want auditlog.DeviceType
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", auditlog.DeviceMobile},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", auditlog.DeviceMobile},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", auditlog.DeviceTablet},
		{"android tablet", "Mozilla/5.0 (Linux; Android 14; SM-X910) Safari/537.36", auditlog.DeviceTablet},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0", auditlog.DeviceDesktop},
		{"empty", "", auditlog.DeviceDesktop},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyDevice(tc.ua))
		})
	}
}
