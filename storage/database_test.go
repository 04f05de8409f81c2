package storage

import (
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *WalletStorage {
	t.Helper()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	storage, err := NewWalletStorage()
	require.NoError(t, err)
	return storage
}

func TestWalletStorageRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	wallet := solana.NewWallet()
	require.NoError(t, storage.SaveWallet("resolver", wallet.PrivateKey))

	loaded, err := storage.GetWallet("resolver")
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey(), loaded.PublicKey())
}

func TestWalletStorageUnknownProfile(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.GetWallet("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wallet found")
}

func TestWalletStorageNames(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveWallet("resolver", solana.NewWallet().PrivateKey))
	require.NoError(t, storage.SaveWallet("authority", solana.NewWallet().PrivateKey))

	names, err := storage.GetAllWalletNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"authority", "resolver"}, names)
}
