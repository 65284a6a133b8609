package services

import (
	"context"
	"testing"

	"telemed.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleFixture(t *testing.T) (*RoleService, *memAccounts) {
	t.Helper()
	accounts := newMemAccounts()
	require.NoError(t, accounts.Create(context.Background(), &models.Account{Address: testAdmin, IsAdmin: true}))
	require.NoError(t, accounts.Create(context.Background(), &models.Account{Address: testPatient, IsPatient: true}))
	return &RoleService{accounts: accounts, tx: stubTx{}, events: &memEvents{}}, accounts
}

func TestHasCapability(t *testing.T) {
	svc, _ := newRoleFixture(t)
	ctx := context.Background()

	ok, err := svc.HasCapability(ctx, testAdmin, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasCapability(ctx, testPatient, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	// Hesabın hiç olmaması yetkisizlikle eşdeğerdir, hata değildir.
	ok, err = svc.HasCapability(ctx, "kayitsiz", models.RolePatient)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequire(t *testing.T) {
	svc, _ := newRoleFixture(t)
	ctx := context.Background()

	assert.NoError(t, svc.Require(ctx, testAdmin, models.RoleAdmin))
	assert.ErrorIs(t, svc.Require(ctx, testPatient, models.RoleAdmin), ErrUnauthorized)
	assert.ErrorIs(t, svc.Require(ctx, "kayitsiz", models.RolePatient), ErrUnauthorized)
}

func TestGrantAndRevoke(t *testing.T) {
	svc, accounts := newRoleFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Grant(ctx, testAdmin, testPatient, models.RoleDoctor))
	account := accounts.byAddr[testPatient]
	assert.True(t, account.IsDoctor)
	assert.True(t, account.IsPatient)

	require.NoError(t, svc.Revoke(ctx, testAdmin, testPatient, models.RoleDoctor))
	assert.False(t, account.IsDoctor)
	assert.True(t, account.IsPatient)
}

func TestGrant_AdminOnly(t *testing.T) {
	svc, _ := newRoleFixture(t)

	err := svc.Grant(context.Background(), testPatient, testPatient, models.RoleDoctor)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGrant_Validation(t *testing.T) {
	svc, _ := newRoleFixture(t)
	ctx := context.Background()

	err := svc.Grant(ctx, testAdmin, testPatient, models.Role("MUHASEBECI"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = svc.Grant(ctx, testAdmin, "kayitsiz", models.RoleDoctor)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGrantRoleInTx_CreatesMissingAccount(t *testing.T) {
	_, accounts := newRoleFixture(t)
	ctx := context.Background()

	require.NoError(t, grantRoleInTx(ctx, accounts, "yeni-doktor", models.RoleDoctor))
	account := accounts.byAddr["yeni-doktor"]
	require.NotNil(t, account)
	assert.True(t, account.IsDoctor)

	// Mevcut hesapta yalnızca ilgili bayrak açılır.
	require.NoError(t, grantRoleInTx(ctx, accounts, testPatient, models.RoleDoctor))
	assert.True(t, accounts.byAddr[testPatient].IsDoctor)
	assert.True(t, accounts.byAddr[testPatient].IsPatient)
}
