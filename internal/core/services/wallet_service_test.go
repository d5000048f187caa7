package services

import (
	"context"
	"testing"

	"pharmalink-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeWallets(t *testing.T, f *fixture) int64 {
	t.Helper()
	n, err := f.store.Wallets.CountActive(context.Background())
	require.NoError(t, err)
	return n
}

func TestWalletCreateActiveDeactivatesOthers(t *testing.T) {
	f := newFixture(t)

	wallet, err := f.wallets.Create(context.Background(), &CreateWalletInput{
		WalletAddress: " 01555000111 ",
		Description:   strPtr("Vodafone Cash"),
		IsActive:      boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "01555000111", wallet.WalletAddress)
	assert.Equal(t, DefaultCurrency, wallet.Currency)
	assert.True(t, wallet.IsActive)

	assert.EqualValues(t, 1, activeWallets(t, f))
	public, err := f.subs.ActiveWallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "01555000111", public.WalletAddress)
	require.NotNil(t, public.Description)
	assert.Equal(t, "Vodafone Cash", *public.Description)
}

func TestWalletCreateInactiveKeepsCurrent(t *testing.T) {
	f := newFixture(t)

	wallet, err := f.wallets.Create(context.Background(), &CreateWalletInput{WalletAddress: "01555000111", Currency: strPtr("usd")})
	require.NoError(t, err)
	assert.False(t, wallet.IsActive)
	assert.Equal(t, "USD", wallet.Currency)

	public, err := f.subs.ActiveWallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seededWallet, public.WalletAddress)
}

func TestWalletCreateDuplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.wallets.Create(context.Background(), &CreateWalletInput{WalletAddress: seededWallet, IsActive: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrWalletAlreadyExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// The failed create must not have deactivated the current wallet
	assert.EqualValues(t, 1, activeWallets(t, f))
}

func TestWalletUpdateActivation(t *testing.T) {
	f := newFixture(t)

	second, err := f.wallets.Create(context.Background(), &CreateWalletInput{WalletAddress: "01555000111"})
	require.NoError(t, err)

	updated, err := f.wallets.Update(context.Background(), &UpdateWalletInput{WalletID: second.ID, IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.EqualValues(t, 1, activeWallets(t, f))

	public, err := f.subs.ActiveWallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "01555000111", public.WalletAddress)

	// Deactivating leaves no active wallet
	_, err = f.wallets.Update(context.Background(), &UpdateWalletInput{WalletID: second.ID, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.EqualValues(t, 0, activeWallets(t, f))
}

func TestWalletUpdateRejections(t *testing.T) {
	f := newFixture(t)
	second, err := f.wallets.Create(context.Background(), &CreateWalletInput{WalletAddress: "01555000111"})
	require.NoError(t, err)

	_, err = f.wallets.Update(context.Background(), &UpdateWalletInput{WalletID: "7"})
	assert.ErrorIs(t, err, domain.ErrInvalidWalletID)

	_, err = f.wallets.Update(context.Background(), &UpdateWalletInput{WalletID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	_, err = f.wallets.Update(context.Background(), &UpdateWalletInput{WalletID: second.ID, WalletAddress: strPtr(seededWallet)})
	assert.ErrorIs(t, err, domain.ErrWalletAlreadyExists)

	wallets, err := f.wallets.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, wallets, 2)
}
