package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSync_PullsWhenNoLocalProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.remote.profiles[account] = schema.UserProfileRow{
		ID: account, FirstName: "Ann", LastName: "Lee", Theme: "dark", BirthDate: ptr("1990-02-03"),
		CreatedAt: "2025-05-01T00:00:00Z", UpdatedAt: "2025-05-01T00:00:00Z",
	}

	ps := NewProfileSync(h.deps())
	report, err := ps.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pulled)

	got, err := h.store.Profiles().GetByID(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, models.ThemeDark, got.Theme)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, models.NewDate(1990, 2, 3), *got.BirthDate)

	report, err = ps.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
	assert.Zero(t, h.remote.count("UpsertProfile"))
}

func TestProfileSync_UpsertsLocalChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := &models.UserProfile{ID: account, FirstName: "Ann", Theme: models.ThemeLight, CreatedAt: localNow, UpdatedAt: localNow}
	require.NoError(t, h.store.Profiles().Upsert(ctx, p))

	ps := NewProfileSync(h.deps())
	report, err := ps.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, "light", h.remote.profiles[account].Theme)

	p, err = h.store.Profiles().GetByID(ctx, account)
	require.NoError(t, err)
	p.City = ptr("Riga")
	require.NoError(t, h.store.Profiles().Upsert(ctx, p))

	report, err = ps.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	require.NotNil(t, h.remote.profiles[account].City)
	assert.Equal(t, "Riga", *h.remote.profiles[account].City)
	assert.Equal(t, 2, h.remote.count("UpsertProfile"))
}

func TestProfileSync_NothingAnywhere(t *testing.T) {
	h := newHarness(t)
	report, err := NewProfileSync(h.deps()).Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Pulled)
	assert.Equal(t, 1, h.remote.count("GetProfile"))
}
