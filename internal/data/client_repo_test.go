package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
	"github.com/raborimet/crm-api/internal/testutil"
)

func TestClientRepo_CreateGetUpdateDelete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewClientRepo(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.CreateClientRequest{
		Name:        "Acme Construcciones",
		Email:       testutil.StringPtr("Contacto@Acme.Example"),
		Company:     "Acme SL",
		ContactType: model.ContactTypeCompany,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Email)
	assert.Equal(t, "contacto@acme.example", *created.Email)
	assert.True(t, created.IsActive)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	updated, err := repo.Update(ctx, created.ID, model.UpdateClientRequest{
		City:     testutil.StringPtr("Madrid"),
		IsActive: testutil.BoolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Madrid", updated.City)
	assert.False(t, updated.IsActive)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientRepo_DuplicateEmail(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewClientRepo(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.CreateClientRequest{
		Name:  "First",
		Email: testutil.StringPtr("dup@example.com"),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.CreateClientRequest{
		Name:  "Second",
		Email: testutil.StringPtr("DUP@example.com"),
	})
	assert.ErrorIs(t, err, ErrClientEmailExists)
}

func TestClientRepo_CreateRejectsInvalidRequest(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewClientRepo(pool)

	_, err := repo.Create(context.Background(), &model.CreateClientRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestClientRepo_ListFiltersAndStats(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewClientRepo(pool)
	ctx := context.Background()

	for _, name := range []string{"Norte Reformas", "Sur Obras", "Este Pinturas"} {
		_, err := repo.Create(ctx, &model.CreateClientRequest{Name: name})
		require.NoError(t, err)
	}
	inactive, err := repo.Create(ctx, &model.CreateClientRequest{Name: "Cerrado SA"})
	require.NoError(t, err)
	_, err = repo.Update(ctx, inactive.ID, model.UpdateClientRequest{
		IsActive: testutil.BoolPtr(false),
	})
	require.NoError(t, err)

	active, total, err := repo.List(ctx, model.ClientsListOptions{
		Limit:    10,
		IsActive: testutil.BoolPtr(true),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, active, 3)

	matched, total, err := repo.List(ctx, model.ClientsListOptions{
		Limit: 10,
		Q:     testutil.StringPtr("norte"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, matched, 1)
	assert.Equal(t, "Norte Reformas", matched[0].Name)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalClients)
	assert.EqualValues(t, 3, stats.ActiveClients)
	assert.EqualValues(t, 1, stats.InactiveClients)
}
