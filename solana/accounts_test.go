package safe_treasury

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payoutFixture struct {
	PayoutID        uint64
	PayoutIndex     uint64
	Safe            solana.PublicKey
	AssetType       AssetType
	Mint            *solana.PublicKey
	Recipient       solana.PublicKey
	Amount          uint64
	MetadataHash    *[32]byte
	Status          PayoutStatus
	DisputeDeadline int64
}

// encode renders the fixture as full account bytes, discriminator included,
// with a zeroed policy snapshot tail.
func (f payoutFixture) encode() []byte {
	buf := new(bytes.Buffer)
	buf.Write(Account_Payout[:])
	writeUint64LE(buf, f.PayoutID)
	writeUint64LE(buf, f.PayoutIndex)
	buf.Write(f.Safe.Bytes())
	buf.WriteByte(byte(f.AssetType))
	writeOptionPublicKey(buf, f.Mint)
	buf.Write(f.Recipient.Bytes())
	writeUint64LE(buf, f.Amount)
	writeOptionHash32(buf, f.MetadataHash)
	buf.WriteByte(byte(f.Status))
	writeUint64LE(buf, uint64(f.DisputeDeadline))

	// Policy snapshot: authority, resolver, windows, bond, mint, balance,
	// then the unread tail.
	buf.Write(testAuthority.Bytes())
	buf.Write(testAuthority.Bytes())
	writeUint64LE(buf, 86400)
	writeUint64LE(buf, 1_000_000)
	buf.Write(testMint.Bytes())
	writeUint64LE(buf, 100)
	buf.Write(make([]byte, payoutSnapshotTailLen))

	return buf.Bytes()
}

func TestParsePayoutRoundTrip(t *testing.T) {
	mint := testMint
	hash := [32]byte{1, 2, 3}
	fixture := payoutFixture{
		PayoutID:        42,
		PayoutIndex:     7,
		Safe:            testSafe,
		AssetType:       AssetType_Spl,
		Mint:            &mint,
		Recipient:       testAuthority,
		Amount:          5_000_000,
		MetadataHash:    &hash,
		Status:          PayoutStatus_Queued,
		DisputeDeadline: 1_700_000_000,
	}

	payout, err := ParseAccount_Payout(fixture.encode())
	require.NoError(t, err)

	assert.Equal(t, uint64(42), payout.PayoutID)
	assert.Equal(t, uint64(7), payout.PayoutIndex)
	assert.Equal(t, testSafe, payout.Safe)
	assert.Equal(t, AssetType_Spl, payout.AssetType)
	require.NotNil(t, payout.Mint)
	assert.Equal(t, testMint, *payout.Mint)
	assert.Equal(t, testAuthority, payout.Recipient)
	assert.Equal(t, uint64(5_000_000), payout.Amount)
	require.NotNil(t, payout.MetadataHash)
	assert.Equal(t, hash, *payout.MetadataHash)
	assert.Equal(t, PayoutStatus_Queued, payout.Status)
	assert.Equal(t, int64(1_700_000_000), payout.DisputeDeadline)
	assert.Equal(t, uint64(86400), payout.DisputeWindow)
	assert.Equal(t, uint64(1_000_000), payout.ChallengeBond)
	assert.Equal(t, uint64(100), payout.MinTokenBalance)
}

func TestParsePayoutNativeHasNoMint(t *testing.T) {
	fixture := payoutFixture{
		PayoutID:  1,
		Safe:      testSafe,
		AssetType: AssetType_Native,
		Recipient: testAuthority,
		Amount:    1,
		Status:    PayoutStatus_Queued,
	}

	payout, err := ParseAccount_Payout(fixture.encode())
	require.NoError(t, err)
	assert.Nil(t, payout.Mint)
	assert.Nil(t, payout.MetadataHash)
}

func TestParsePayoutRejectsBadInput(t *testing.T) {
	t.Run("short buffer", func(t *testing.T) {
		_, err := ParseAccount_Payout([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("wrong discriminator", func(t *testing.T) {
		data := payoutFixture{Safe: testSafe, Recipient: testAuthority}.encode()
		copy(data[:8], Account_SafePolicy[:])
		_, err := ParseAccount_Payout(data)
		require.Error(t, err)
	})

	t.Run("invalid asset type", func(t *testing.T) {
		data := payoutFixture{Safe: testSafe, Recipient: testAuthority}.encode()
		data[8+8+8+32] = 9
		_, err := ParseAccount_Payout(data)
		require.Error(t, err)
	})

	t.Run("invalid option tag", func(t *testing.T) {
		data := payoutFixture{Safe: testSafe, Recipient: testAuthority}.encode()
		// Mint option tag sits right after the asset type byte.
		data[8+8+8+32+1] = 7
		_, err := ParseAccount_Payout(data)
		require.Error(t, err)
	})

	t.Run("truncated snapshot", func(t *testing.T) {
		data := payoutFixture{Safe: testSafe, Recipient: testAuthority}.encode()
		_, err := ParseAccount_Payout(data[:len(data)-10])
		require.Error(t, err)
	})
}

func TestParseSafePolicy(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Write(Account_SafePolicy[:])
	buf.Write(testAuthority.Bytes())
	buf.Write(testSafe.Bytes())
	writeUint64LE(buf, 86400)
	writeUint64LE(buf, 2_000_000)
	buf.Write(testMint.Bytes())
	writeUint64LE(buf, 50)
	buf.WriteByte(2)
	writeUint64LE(buf, 43200)
	buf.WriteByte(3)
	buf.Write(make([]byte, 32))
	writeBool(buf, true)
	writeBool(buf, false)
	writeBool(buf, true)
	writeUint64LE(buf, 11)
	buf.WriteByte(254)

	policy, err := ParseAccount_SafePolicy(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, testAuthority, policy.Authority)
	assert.Equal(t, testSafe, policy.Resolver)
	assert.Equal(t, uint64(86400), policy.DisputeWindow)
	assert.Equal(t, uint64(2_000_000), policy.ChallengeBond)
	assert.Equal(t, testMint, policy.EligibilityMint)
	assert.Equal(t, uint64(50), policy.MinTokenBalance)
	assert.Equal(t, uint8(2), policy.MaxAppealRounds)
	assert.Equal(t, uint64(43200), policy.AppealWindowDuration)
	assert.Equal(t, uint8(3), policy.AppealBondMultiplier)
	assert.True(t, policy.ExitCustodyAllowed)
	assert.False(t, policy.PayoutCancellationAllowed)
	assert.True(t, policy.TreasuryModeEnabled)
	assert.Equal(t, uint64(11), policy.PayoutCount)
	assert.Equal(t, uint8(254), policy.Bump)
}

// The payout_count offset constant is load-bearing for the queue flow; pin it
// against the actual encoded layout.
func TestSafePolicyPayoutCountOffset(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Write(Account_SafePolicy[:])
	buf.Write(testAuthority.Bytes())
	buf.Write(testSafe.Bytes())
	writeUint64LE(buf, 0)
	writeUint64LE(buf, 0)
	buf.Write(testMint.Bytes())
	writeUint64LE(buf, 0)
	buf.WriteByte(0)
	writeUint64LE(buf, 0)
	buf.WriteByte(0)
	buf.Write(make([]byte, 32))
	writeBool(buf, false)
	writeBool(buf, false)
	writeBool(buf, false)
	writeUint64LE(buf, 0xCAFEBABE)
	buf.WriteByte(0)

	data := buf.Bytes()
	raw := binary.LittleEndian.Uint64(data[SafePolicyPayoutCountOffset : SafePolicyPayoutCountOffset+8])
	require.Equal(t, uint64(0xCAFEBABE), raw)

	policy, err := ParseAccount_SafePolicy(data)
	require.NoError(t, err)
	require.Equal(t, uint64(0xCAFEBABE), policy.PayoutCount)
}

// Likewise the safe field offset used by the program-account memcmp filter.
func TestPayoutSafeOffset(t *testing.T) {
	data := payoutFixture{Safe: testSafe, Recipient: testAuthority}.encode()
	require.Equal(t, testSafe.Bytes(), data[PayoutSafeOffset:PayoutSafeOffset+32])
}

func TestIsReleaseReady(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	queued := &Payout{Status: PayoutStatus_Queued, DisputeDeadline: now.Unix() - 1}
	assert.True(t, queued.IsReleaseReady(now))
	assert.Equal(t, "ReleaseReady", queued.DisplayStatusLabel(now))

	pending := &Payout{Status: PayoutStatus_Queued, DisputeDeadline: now.Unix() + 600}
	assert.False(t, pending.IsReleaseReady(now))
	assert.Equal(t, "Queued", pending.DisplayStatusLabel(now))

	// Status gates readiness even with an elapsed deadline.
	challenged := &Payout{Status: PayoutStatus_Challenged, DisputeDeadline: now.Unix() - 1}
	assert.False(t, challenged.IsReleaseReady(now))
	assert.Equal(t, "Challenged", challenged.DisplayStatusLabel(now))

	released := &Payout{Status: PayoutStatus_Released, DisputeDeadline: now.Unix() - 1}
	assert.False(t, released.IsReleaseReady(now))
}

func TestTimeRemainingLabel(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	queued := &Payout{Status: PayoutStatus_Queued, DisputeDeadline: now.Unix() + 90*60}
	assert.Equal(t, "1h 30m", queued.TimeRemainingLabel(now))

	challenged := &Payout{Status: PayoutStatus_Challenged}
	assert.Equal(t, "Under challenge", challenged.TimeRemainingLabel(now))

	released := &Payout{Status: PayoutStatus_Released}
	assert.Equal(t, "—", released.TimeRemainingLabel(now))
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "Ready", FormatCountdown(0))
	assert.Equal(t, "Ready", FormatCountdown(-5))
	assert.Equal(t, "1m", FormatCountdown(30))
	assert.Equal(t, "5m", FormatCountdown(5*60+59))
	assert.Equal(t, "2h 5m", FormatCountdown(2*3600+5*60))
	assert.Equal(t, "3d 4h", FormatCountdown(3*86400+4*3600+59*60))
}
