package safe_treasury

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLikelyStalePayoutStateError(t *testing.T) {
	stale := []string{
		"custom program error: InvalidStateTransition",
		"Error Code: PayoutNotChallengeable. Error Number: 6003",
		"RECIPIENTMISMATCH",
		"transaction simulation failed: AlreadyFinalized",
	}
	for _, message := range stale {
		assert.True(t, IsLikelyStalePayoutStateError(message), message)
	}

	fresh := []string{
		"",
		"insufficient funds for rent",
		"blockhash not found",
		"custom program error: 0x1",
	}
	for _, message := range fresh {
		assert.False(t, IsLikelyStalePayoutStateError(message), message)
	}
}

func TestSortPayoutResultsOrdersByIdDescending(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	c := solana.NewWallet().PublicKey()

	results := sortPayoutResults([]*PayoutResult{
		{PublicKey: a, Account: Payout{PayoutID: 3}},
		{PublicKey: b, Account: Payout{PayoutID: 11}},
		{PublicKey: c, Account: Payout{PayoutID: 7}},
	})

	require.Len(t, results, 3)
	assert.Equal(t, uint64(11), results[0].Account.PayoutID)
	assert.Equal(t, uint64(7), results[1].Account.PayoutID)
	assert.Equal(t, uint64(3), results[2].Account.PayoutID)
}

func TestSortPayoutResultsDeduplicatesByAddress(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	results := sortPayoutResults([]*PayoutResult{
		{PublicKey: addr, Account: Payout{PayoutID: 5}},
		{PublicKey: addr, Account: Payout{PayoutID: 5}},
		{PublicKey: other, Account: Payout{PayoutID: 2}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, addr, results[0].PublicKey)
	assert.Equal(t, other, results[1].PublicKey)
}

func TestSortPayoutResultsEmpty(t *testing.T) {
	assert.Empty(t, sortPayoutResults(nil))
}

func TestNewReadOnlyClientHasSigner(t *testing.T) {
	client, err := NewReadOnlyClient("http://localhost:8899")
	require.NoError(t, err)
	require.NotNil(t, client.RpcClient)
	assert.False(t, client.Signer.PublicKey().IsZero())
}
