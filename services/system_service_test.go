package services

import (
	"context"
	"testing"

	"telemed.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemFixture(t *testing.T) (*SystemService, *memSystem, *memEvents) {
	t.Helper()
	accounts := newMemAccounts()
	require.NoError(t, accounts.Create(context.Background(), &models.Account{Address: testAdmin, IsAdmin: true}))
	system := newMemSystem()
	events := &memEvents{}
	svc := &SystemService{
		system: system,
		roles:  &RoleService{accounts: accounts, tx: stubTx{}, events: events},
		tx:     stubTx{},
		events: events,
	}
	return svc, system, events
}

func TestSetPaused_Toggles(t *testing.T) {
	svc, system, events := newSystemFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPaused(ctx, testAdmin, true))
	assert.True(t, system.state.Paused)
	assert.Contains(t, events.types(), EventSystemPauseChanged)

	require.NoError(t, svc.SetPaused(ctx, testAdmin, false))
	assert.False(t, system.state.Paused)
}

func TestSetPaused_AdminOnly(t *testing.T) {
	svc, system, _ := newSystemFixture(t)

	err := svc.SetPaused(context.Background(), "yabanci", true)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, system.state.Paused)
}

func TestSetEmergencyPremium(t *testing.T) {
	svc, system, _ := newSystemFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetEmergencyPremium(ctx, testAdmin, 200))
	assert.Equal(t, 200, system.state.EmergencyPremiumPct)

	// %100 taban: çarpan ücreti düşüremez.
	assert.ErrorIs(t, svc.SetEmergencyPremium(ctx, testAdmin, 99), ErrInvalidPremium)
	assert.Equal(t, 200, system.state.EmergencyPremiumPct)

	assert.ErrorIs(t, svc.SetEmergencyPremium(ctx, "yabanci", 150), ErrUnauthorized)
}

func TestGetState_Defaults(t *testing.T) {
	svc, _, _ := newSystemFixture(t)

	state, err := svc.GetState(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Paused)
	assert.Equal(t, 150, state.EmergencyPremiumPct)
}
