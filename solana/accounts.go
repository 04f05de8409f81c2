package safe_treasury

import (
	"bytes"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SafePolicy is the on-chain configuration record governing one escrow
// authority's dispute rules. One per authority.
type SafePolicy struct {
	Authority                 solana.PublicKey
	Resolver                  solana.PublicKey
	DisputeWindow             uint64
	ChallengeBond             uint64
	EligibilityMint           solana.PublicKey
	MinTokenBalance           uint64
	MaxAppealRounds           uint8
	AppealWindowDuration      uint64
	AppealBondMultiplier      uint8
	IpfsPolicyHash            [32]byte
	ExitCustodyAllowed        bool
	PayoutCancellationAllowed bool
	TreasuryModeEnabled       bool
	PayoutCount               uint64
	Bump                      uint8
}

// UnmarshalWithDecoder walks the SafePolicy field layout in read order.
// The decoder must be positioned after the 8-byte account discriminator.
func (p *SafePolicy) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if p.Authority, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.Resolver, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.DisputeWindow, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.ChallengeBond, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.EligibilityMint, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.MinTokenBalance, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.MaxAppealRounds, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if p.AppealWindowDuration, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.AppealBondMultiplier, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if p.IpfsPolicyHash, err = readHash32(decoder); err != nil {
		return err
	}
	if p.ExitCustodyAllowed, err = decoder.ReadBool(); err != nil {
		return err
	}
	if p.PayoutCancellationAllowed, err = decoder.ReadBool(); err != nil {
		return err
	}
	if p.TreasuryModeEnabled, err = decoder.ReadBool(); err != nil {
		return err
	}
	if p.PayoutCount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.Bump, err = decoder.ReadUint8(); err != nil {
		return err
	}
	return nil
}

// ParseAccount_SafePolicy parses raw SafePolicy account bytes, checking the
// discriminator prefix first.
func ParseAccount_SafePolicy(data []byte) (*SafePolicy, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account data too short for discriminator: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], Account_SafePolicy[:]) {
		return nil, fmt.Errorf("not a SafePolicy account")
	}
	policy := new(SafePolicy)
	if err := policy.UnmarshalWithDecoder(bin.NewBorshDecoder(data[8:])); err != nil {
		return nil, fmt.Errorf("failed to decode SafePolicy: %w", err)
	}
	return policy, nil
}

// Payout is one queued disbursement with its own dispute lifecycle, keyed by
// (safe, index). The decoded struct carries the policy fields snapshotted at
// queue time; remaining snapshot bytes are skipped by fixed width and not
// surfaced.
type Payout struct {
	PayoutID     uint64
	PayoutIndex  uint64
	Safe         solana.PublicKey
	AssetType    AssetType
	Mint         *solana.PublicKey
	Recipient    solana.PublicKey
	Amount       uint64
	MetadataHash *[32]byte
	Status       PayoutStatus
	// DisputeDeadline is unix seconds. A payout is release-ready iff it is
	// still Queued and this deadline has elapsed; that condition is derived
	// at read time, never stored.
	DisputeDeadline int64

	// Policy snapshot fields captured when the payout was queued.
	PolicyAuthority solana.PublicKey
	Resolver        solana.PublicKey
	DisputeWindow   uint64
	ChallengeBond   uint64
	EligibilityMint solana.PublicKey
	MinTokenBalance uint64
}

// Width of the policy-snapshot remainder after min_token_balance:
// max_appeal_rounds(1) + appeal_window_duration(8) + appeal_bond_multiplier(1)
// + ipfs_policy_hash(32) + three bools(3) + payout_count(8) + bump(1).
// The widths are load-bearing for offset correctness; the field semantics are
// not surfaced here.
const payoutSnapshotTailLen = 1 + 8 + 1 + 32 + 3 + 8 + 1

// UnmarshalWithDecoder walks the Payout field layout in read order. The
// decoder must be positioned after the 8-byte account discriminator.
func (p *Payout) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if p.PayoutID, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.PayoutIndex, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.Safe, err = readPublicKey(decoder); err != nil {
		return err
	}
	assetType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	p.AssetType = AssetType(assetType)
	if !p.AssetType.IsValid() {
		return fmt.Errorf("invalid asset type discriminant: %d", assetType)
	}
	if p.Mint, err = readOptionPublicKey(decoder); err != nil {
		return err
	}
	if p.Recipient, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.Amount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.MetadataHash, err = readOptionHash32(decoder); err != nil {
		return err
	}
	status, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	p.Status = PayoutStatus(status)
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid payout status discriminant: %d", status)
	}
	if p.DisputeDeadline, err = decoder.ReadInt64(bin.LE); err != nil {
		return err
	}
	if p.PolicyAuthority, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.Resolver, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.DisputeWindow, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.ChallengeBond, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.EligibilityMint, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.MinTokenBalance, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	// Skip remaining policy snapshot fields we do not currently surface.
	if err = skipBytes(decoder, payoutSnapshotTailLen); err != nil {
		return err
	}
	return nil
}

// ParseAccount_Payout parses raw Payout account bytes, checking the
// discriminator prefix first.
func ParseAccount_Payout(data []byte) (*Payout, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account data too short for discriminator: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], Account_Payout[:]) {
		return nil, fmt.Errorf("not a Payout account")
	}
	payout := new(Payout)
	if err := payout.UnmarshalWithDecoder(bin.NewBorshDecoder(data[8:])); err != nil {
		return nil, fmt.Errorf("failed to decode Payout: %w", err)
	}
	return payout, nil
}

// IsReleaseReady reports whether the payout is still queued and its dispute
// window has elapsed at the given time. Recomputed per call on purpose:
// caching it would go stale the moment the deadline passes.
func (p *Payout) IsReleaseReady(now time.Time) bool {
	return p.Status == PayoutStatus_Queued && p.DisputeDeadline <= now.Unix()
}

// DisplayStatusLabel returns the status label for display, substituting
// "ReleaseReady" for a queued payout whose dispute window has elapsed.
func (p *Payout) DisplayStatusLabel(now time.Time) string {
	if p.IsReleaseReady(now) {
		return "ReleaseReady"
	}
	return p.Status.Label()
}

// TimeRemainingLabel renders the countdown column for the payout queue view.
func (p *Payout) TimeRemainingLabel(now time.Time) string {
	switch p.Status {
	case PayoutStatus_Queued:
		return FormatCountdown(p.DisputeDeadline - now.Unix())
	case PayoutStatus_Challenged:
		return "Under challenge"
	default:
		return "—"
	}
}

// FormatCountdown renders a floor-rounded days/hours/minutes countdown.
// Positive remainders under a minute display as the 1-minute floor.
func FormatCountdown(seconds int64) string {
	if seconds <= 0 {
		return "Ready"
	}

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%dm", minutes)
}
