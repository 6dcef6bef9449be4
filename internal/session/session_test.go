package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	actorID := int64(7)
	ctx := WithSession(context.Background(), New(&actorID, "sess-abc"))

	got := FromContext(ctx)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, int64(7), *got.ActorID)
	assert.Equal(t, "sess-abc", got.CorrelationID)
}

func TestNewMintsCorrelationID(t *testing.T) {
	first := New(nil, "")
	second := New(nil, "")

	assert.NotEmpty(t, first.CorrelationID)
	assert.NotEqual(t, first.CorrelationID, second.CorrelationID)
}

func TestFromContextWithoutSession(t *testing.T) {
	got := FromContext(context.Background())
	assert.Nil(t, got.ActorID)
	assert.Empty(t, got.CorrelationID)
}
