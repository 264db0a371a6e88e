package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/testutil"
)

func TestRevocationList_RevokeAndCheck(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	list := NewRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	err = list.Revoke(ctx, "some-token", time.Now().Add(time.Hour))
	require.NoError(t, err)

	revoked, err = list.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationList_ExpiredTokenNoop(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	list := NewRevocationList(client)
	ctx := context.Background()

	err := list.Revoke(ctx, "stale-token", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	revoked, err := list.IsRevoked(ctx, "stale-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationList_EmptyToken(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	list := NewRevocationList(client)
	ctx := context.Background()

	assert.Error(t, list.Revoke(ctx, "", time.Now().Add(time.Hour)))

	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
