package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPatch struct {
	orderID        int64
	ipAddress      *string
	geolocation    *string
	accessLocation *string
}

type fakePatcher struct {
	patches []capturedPatch
}

func (p *fakePatcher) PatchLatestLocation(_ context.Context, orderID int64, ipAddress, geolocation, accessLocation *string) {
	p.patches = append(p.patches, capturedPatch{
		orderID:        orderID,
		ipAddress:      ipAddress,
		geolocation:    geolocation,
		accessLocation: accessLocation,
	})
}

type fakeResolver struct {
	address string
	err     error
}

func (r *fakeResolver) ReverseGeocode(context.Context, float64, float64) (string, error) {
	if r.err != nil {
		return "", r.err
	}

	return r.address, nil
}

func TestProcessPatchesResolvedAddress(t *testing.T) {
	patcher := &fakePatcher{}
	w := NewWorker(patcher, &fakeResolver{address: "12 Marina Rd, Lagos"})

	ip := "203.0.113.9"
	w.process(context.Background(), Job{OrderID: 1, Latitude: 6.455, Longitude: 3.3841, IPAddress: &ip})

	require.Len(t, patcher.patches, 1)
	p := patcher.patches[0]
	assert.Equal(t, int64(1), p.orderID)
	require.NotNil(t, p.geolocation)
	assert.Equal(t, "6.455000,3.384100", *p.geolocation)
	require.NotNil(t, p.accessLocation)
	assert.Equal(t, "12 Marina Rd, Lagos", *p.accessLocation)
	require.NotNil(t, p.ipAddress)
	assert.Equal(t, ip, *p.ipAddress)
}

func TestProcessDegradesWhenResolverFails(t *testing.T) {
	patcher := &fakePatcher{}
	w := NewWorker(patcher, &fakeResolver{err: errors.New("quota exceeded")})

	w.process(context.Background(), Job{OrderID: 2, Latitude: 6.6018, Longitude: 3.3515})

	require.Len(t, patcher.patches, 1)
	assert.NotNil(t, patcher.patches[0].geolocation)
	assert.Nil(t, patcher.patches[0].accessLocation)
}

func TestProcessWithoutResolver(t *testing.T) {
	patcher := &fakePatcher{}
	w := NewWorker(patcher, nil)

	w.process(context.Background(), Job{OrderID: 3, Latitude: 6.455, Longitude: 3.3841})

	require.Len(t, patcher.patches, 1)
	assert.Nil(t, patcher.patches[0].accessLocation)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	patcher := &fakePatcher{}
	w := NewWorker(patcher, nil)
	w.jobs = make(chan Job, 1)

	w.Enqueue(1, 6.455, 3.3841, nil)
	assert.NotPanics(t, func() {
		w.Enqueue(2, 6.455, 3.3841, nil)
	})
	assert.Len(t, w.jobs, 1)
}
