package safe_treasury

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Byte offset of payout_count (u64 LE) inside a SafePolicy account's data,
// including the 8-byte account discriminator prefix. Callers must read the
// count at this offset immediately before deriving the next Payout address:
// it is the sole source of truth for the next payout's seed index.
//
// Layout (discriminator + Borsh fields):
//
//	[0..8]     discriminator
//	[8..40]    authority (pubkey)
//	[40..72]   resolver (pubkey)
//	[72..80]   dispute_window (u64)
//	[80..88]   challenge_bond (u64)
//	[88..120]  eligibility_mint (pubkey)
//	[120..128] min_token_balance (u64)
//	[128]      max_appeal_rounds (u8)
//	[129..137] appeal_window_duration (u64)
//	[137]      appeal_bond_multiplier (u8)
//	[138..170] ipfs_policy_hash ([u8;32])
//	[170]      exit_custody_allowed (bool)
//	[171]      payout_cancellation_allowed (bool)
//	[172]      treasury_mode_enabled (bool)
//	[173..181] payout_count (u64)  ← this constant
//	[181]      bump (u8)
const SafePolicyPayoutCountOffset = 173

// Byte offset of the safe pubkey inside a Payout account's data
// (discriminator 8 + payout_id 8 + payout_index 8). Part of the wire
// contract: the payout-queue memcmp filter matches at this offset.
const PayoutSafeOffset = 24

// GetSafePolicyPDA derives the SafePolicy PDA for a given authority
// (the safe / DAO governance pubkey). Seeds: ["safe_policy", authority].
func GetSafePolicyPDA(authority solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("safe_policy"),
			authority.Bytes(),
		},
		ProgramID,
	)
}

// GetPayoutPDA derives the Payout PDA for a (safe, index) pair.
// Seeds: ["payout", safe, payout_index as u64 LE]. The 8-byte little-endian
// index width is load-bearing: any other width or endianness derives a
// different address.
func GetPayoutPDA(safe solana.PublicKey, payoutIndex uint64) (solana.PublicKey, uint8, error) {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, payoutIndex)
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("payout"),
			safe.Bytes(),
			indexBytes,
		},
		ProgramID,
	)
}

// GetChallengePDA derives the Challenge PDA from a payout address.
// Seeds: ["challenge", payout].
func GetChallengePDA(payout solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("challenge"),
			payout.Bytes(),
		},
		ProgramID,
	)
}

// GetNativeVaultPDA derives the native (SOL) vault for a safe.
// Seeds: ["native_vault", safe].
func GetNativeVaultPDA(safe solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("native_vault"),
			safe.Bytes(),
		},
		ProgramID,
	)
}

// GetSplVaultPDA derives the SPL vault token account for a (safe_policy, mint)
// pair. Seeds: ["spl_vault", safe_policy, mint].
func GetSplVaultPDA(safePolicy, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("spl_vault"),
			safePolicy.Bytes(),
			mint.Bytes(),
		},
		ProgramID,
	)
}

// GetChallengeBondVaultPDA derives the global challenge bond vault.
// Seeds: ["challenge_bond_vault"].
func GetChallengeBondVaultPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("challenge_bond_vault"),
		},
		ProgramID,
	)
}

// GetTreasuryRegistryPDA derives the global treasury registry.
// Seeds: ["treasury_registry"].
func GetTreasuryRegistryPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("treasury_registry"),
		},
		ProgramID,
	)
}

// GetTreasuryInfoPDA derives the treasury info record for a safe.
// Seeds: ["treasury_info", safe].
func GetTreasuryInfoPDA(safe solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			[]byte("treasury_info"),
			safe.Bytes(),
		},
		ProgramID,
	)
}
