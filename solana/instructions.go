package safe_treasury

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Instruction builders are pure: they derive the PDAs an operation touches,
// encode discriminator ++ argument payload in the program's exact field
// order, and return the instruction for an external signer/submitter. They
// never touch the network.

// InitializeSafePolicyArgs carries the typed arguments for creating a safe
// policy. IpfsPolicyHash shorter than 32 bytes is zero-padded; longer input
// is truncated.
type InitializeSafePolicyArgs struct {
	Authority                 solana.PublicKey
	Resolver                  solana.PublicKey
	DisputeWindow             uint64
	ChallengeBond             uint64
	EligibilityMint           solana.PublicKey
	MinTokenBalance           uint64
	MaxAppealRounds           uint8
	AppealWindowDuration      uint64
	IpfsPolicyHash            []byte
	TreasuryModeEnabled       bool
	PayoutCancellationAllowed bool
}

// NewInitializeSafePolicyInstruction builds the InitializeSafePolicy
// instruction.
func NewInitializeSafePolicyInstruction(args InitializeSafePolicyArgs) (solana.Instruction, error) {
	safePolicy, _, err := GetSafePolicyPDA(args.Authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}

	var hash32 [32]byte
	copy(hash32[:], args.IpfsPolicyHash)

	data := new(bytes.Buffer)
	data.Write(Instruction_InitializeSafePolicy[:])
	data.Write(args.Resolver.Bytes())
	writeUint64LE(data, args.DisputeWindow)
	writeUint64LE(data, args.ChallengeBond)
	data.Write(args.EligibilityMint.Bytes())
	writeUint64LE(data, args.MinTokenBalance)
	data.WriteByte(args.MaxAppealRounds)
	writeUint64LE(data, args.AppealWindowDuration)
	data.Write(hash32[:])
	writeBool(data, args.TreasuryModeEnabled)
	writeBool(data, args.PayoutCancellationAllowed)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(safePolicy).WRITE(),
			solana.Meta(args.Authority).SIGNER().WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		data.Bytes(),
	), nil
}

// RegisterTreasuryArgs carries the arguments for registering (migrating) a
// safe into the treasury registry.
type RegisterTreasuryArgs struct {
	Authority solana.PublicKey
	Safe      solana.PublicKey
	Mode      TreasuryMode
}

// NewRegisterTreasuryInstruction builds the RegisterTreasury instruction.
func NewRegisterTreasuryInstruction(args RegisterTreasuryArgs) (solana.Instruction, error) {
	treasuryInfo, _, err := GetTreasuryInfoPDA(args.Safe)
	if err != nil {
		return nil, fmt.Errorf("failed to derive treasury info PDA: %w", err)
	}
	registry, _, err := GetTreasuryRegistryPDA()
	if err != nil {
		return nil, fmt.Errorf("failed to derive treasury registry PDA: %w", err)
	}
	safePolicy, _, err := GetSafePolicyPDA(args.Authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}

	data := new(bytes.Buffer)
	data.Write(Instruction_RegisterTreasury[:])
	data.WriteByte(byte(args.Mode))

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(treasuryInfo).WRITE(),
			solana.Meta(registry).WRITE(),
			solana.Meta(args.Safe),
			solana.Meta(safePolicy),
			solana.Meta(args.Authority).SIGNER().WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		data.Bytes(),
	), nil
}

// QueuePayoutArgs carries the typed arguments for queueing a disbursement.
// PayoutIndex must be the safe policy's current payout_count, read
// immediately before building; the program rejects index collisions
// atomically.
type QueuePayoutArgs struct {
	Safe                solana.PublicKey
	SafePolicyAuthority solana.PublicKey
	PayoutIndex         uint64
	Payer               solana.PublicKey
	Authority           solana.PublicKey
	AssetType           AssetType
	Mint                *solana.PublicKey
	Recipient           solana.PublicKey
	Amount              uint64
	MetadataHash        *[32]byte
	AuthorizationMode   AuthorizationMode
	PayloadHash         *[32]byte
	ProposalOwner       *solana.PublicKey
	ProposalSignatory   *solana.PublicKey
	Proposal            *solana.PublicKey
}

// NewQueuePayoutInstruction builds the QueuePayout instruction.
//
// For native assets the on-chain handler requires mint == None. The mint is
// therefore dropped for Native rather than encoded. Falling back to the
// system program key would encode as Some(11111...) and the program rejects
// it with InvalidAssetConfig.
func NewQueuePayoutInstruction(args QueuePayoutArgs) (solana.Instruction, error) {
	mint := args.Mint
	if args.AssetType == AssetType_Native {
		mint = nil
	} else if mint == nil {
		return nil, fmt.Errorf("%s payout requires a mint", args.AssetType.Label())
	}

	safePolicy, _, err := GetSafePolicyPDA(args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}
	payout, _, err := GetPayoutPDA(args.Safe, args.PayoutIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payout PDA: %w", err)
	}

	data := new(bytes.Buffer)
	data.Write(Instruction_QueuePayout[:])
	data.WriteByte(byte(args.AssetType))
	writeOptionPublicKey(data, mint)
	data.Write(args.Recipient.Bytes())
	writeUint64LE(data, args.Amount)
	writeOptionHash32(data, args.MetadataHash)
	data.WriteByte(byte(args.AuthorizationMode))
	writeOptionHash32(data, args.PayloadHash)
	writeOptionPublicKey(data, args.ProposalOwner)
	writeOptionPublicKey(data, args.ProposalSignatory)

	proposal := solana.SystemProgramID
	if args.Proposal != nil {
		proposal = *args.Proposal
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payout).WRITE(),
			solana.Meta(args.Safe).WRITE(),
			solana.Meta(safePolicy).WRITE(),
			solana.Meta(args.Payer).SIGNER().WRITE(),
			solana.Meta(args.Authority),
			solana.Meta(proposal),
			solana.Meta(solana.SystemProgramID),
		},
		data.Bytes(),
	), nil
}

// ChallengePayoutArgs carries the arguments for bonding an objection against
// a queued payout.
type ChallengePayoutArgs struct {
	Safe                   solana.PublicKey
	PayoutIndex            uint64
	SafePolicyAuthority    solana.PublicKey
	ChallengerTokenAccount solana.PublicKey
	Challenger             solana.PublicKey
	BondAmount             uint64
}

// NewChallengePayoutInstruction builds the ChallengePayout instruction.
func NewChallengePayoutInstruction(args ChallengePayoutArgs) (solana.Instruction, error) {
	payout, _, err := GetPayoutPDA(args.Safe, args.PayoutIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payout PDA: %w", err)
	}
	challenge, _, err := GetChallengePDA(payout)
	if err != nil {
		return nil, fmt.Errorf("failed to derive challenge PDA: %w", err)
	}
	safePolicy, _, err := GetSafePolicyPDA(args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}
	bondVault, _, err := GetChallengeBondVaultPDA()
	if err != nil {
		return nil, fmt.Errorf("failed to derive challenge bond vault PDA: %w", err)
	}

	data := new(bytes.Buffer)
	data.Write(Instruction_ChallengePayout[:])
	writeUint64LE(data, args.BondAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payout).WRITE(),
			solana.Meta(challenge).WRITE(),
			solana.Meta(safePolicy).WRITE(),
			solana.Meta(args.Safe).WRITE(),
			solana.Meta(bondVault).WRITE(),
			solana.Meta(args.ChallengerTokenAccount),
			solana.Meta(args.Challenger).SIGNER().WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		data.Bytes(),
	), nil
}

// RecordRulingArgs carries the arguments for recording a dispute ruling.
// ProposalOwner and ProposalSignatory are accepted for wire completeness but
// the client currently always sends None for them, Proposal mode included.
type RecordRulingArgs struct {
	Safe                solana.PublicKey
	PayoutIndex         uint64
	SafePolicyAuthority solana.PublicKey
	Challenger          solana.PublicKey
	Resolver            solana.PublicKey
	Round               uint8
	Outcome             RulingOutcome
	IsFinal             bool
	AuthorizationMode   AuthorizationMode
	PayloadHash         *[32]byte
	ProposalOwner       *solana.PublicKey
	ProposalSignatory   *solana.PublicKey
	ProposalState       *uint8
	Proposal            *solana.PublicKey
}

// NewRecordRulingInstruction builds the RecordRuling instruction.
func NewRecordRulingInstruction(args RecordRulingArgs) (solana.Instruction, error) {
	if args.Outcome > RulingOutcome_Deny {
		return nil, fmt.Errorf("invalid ruling outcome: %d", args.Outcome)
	}

	payout, _, err := GetPayoutPDA(args.Safe, args.PayoutIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payout PDA: %w", err)
	}
	challenge, _, err := GetChallengePDA(payout)
	if err != nil {
		return nil, fmt.Errorf("failed to derive challenge PDA: %w", err)
	}
	safePolicy, _, err := GetSafePolicyPDA(args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}
	bondVault, _, err := GetChallengeBondVaultPDA()
	if err != nil {
		return nil, fmt.Errorf("failed to derive challenge bond vault PDA: %w", err)
	}

	data := new(bytes.Buffer)
	data.Write(Instruction_RecordRuling[:])
	data.WriteByte(args.Round)
	data.WriteByte(byte(args.Outcome))
	writeBool(data, args.IsFinal)
	data.WriteByte(byte(args.AuthorizationMode))
	writeOptionHash32(data, args.PayloadHash)
	writeOptionPublicKey(data, args.ProposalOwner)
	writeOptionPublicKey(data, args.ProposalSignatory)
	writeOptionUint8(data, args.ProposalState)

	proposal := solana.SystemProgramID
	if args.Proposal != nil {
		proposal = *args.Proposal
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payout).WRITE(),
			solana.Meta(challenge).WRITE(),
			solana.Meta(safePolicy),
			solana.Meta(bondVault).WRITE(),
			solana.Meta(args.Challenger).WRITE(),
			solana.Meta(args.Safe).WRITE(),
			solana.Meta(args.Resolver),
			solana.Meta(proposal),
			solana.Meta(solana.SystemProgramID),
		},
		data.Bytes(),
	), nil
}

// ReleasePayoutArgs carries the arguments for releasing a payout once its
// dispute window has elapsed. SafePolicyAuthority, Mint, RecipientTokenAccount
// and TokenProgram are required for SPL/SPL2022/NFT releases and ignored for
// Native.
type ReleasePayoutArgs struct {
	Safe                  solana.PublicKey
	PayoutIndex           uint64
	Recipient             solana.PublicKey
	AssetType             AssetType
	Mint                  *solana.PublicKey
	SafePolicyAuthority   *solana.PublicKey
	RecipientTokenAccount *solana.PublicKey
	TokenProgram          *solana.PublicKey
}

// NewReleasePayoutInstruction builds the release instruction for the payout's
// asset type. Both variants carry the discriminator only, no argument bytes.
func NewReleasePayoutInstruction(args ReleasePayoutArgs) (solana.Instruction, error) {
	payout, _, err := GetPayoutPDA(args.Safe, args.PayoutIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payout PDA: %w", err)
	}

	if args.AssetType == AssetType_Native {
		vault, _, err := GetNativeVaultPDA(args.Safe)
		if err != nil {
			return nil, fmt.Errorf("failed to derive native vault PDA: %w", err)
		}
		return solana.NewInstruction(
			ProgramID,
			solana.AccountMetaSlice{
				solana.Meta(payout).WRITE(),
				solana.Meta(vault).WRITE(),
				solana.Meta(args.Safe).WRITE(),
				solana.Meta(args.Recipient).WRITE(),
				solana.Meta(solana.SystemProgramID),
			},
			Instruction_ReleaseNativePayout[:],
		), nil
	}

	if args.SafePolicyAuthority == nil || args.Mint == nil || args.RecipientTokenAccount == nil {
		return nil, fmt.Errorf("SPL release requires safe policy authority, mint and recipient token account")
	}

	safePolicy, _, err := GetSafePolicyPDA(*args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}
	vaultTokenAccount, _, err := GetSplVaultPDA(safePolicy, *args.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive spl vault PDA: %w", err)
	}

	tokenProgram := solana.SystemProgramID
	if args.TokenProgram != nil {
		tokenProgram = *args.TokenProgram
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payout).WRITE(),
			solana.Meta(*args.Mint),
			solana.Meta(vaultTokenAccount).WRITE(),
			solana.Meta(safePolicy),
			solana.Meta(args.Safe).WRITE(),
			solana.Meta(*args.RecipientTokenAccount).WRITE(),
			solana.Meta(tokenProgram),
		},
		Instruction_ReleaseSplPayout[:],
	), nil
}

// ExitCustodyArgs carries the arguments for withdrawing assets out of safe
// custody. Token-related accounts are optional and default to the system
// program in the key list for native exits; the recipient in the argument
// payload is always the raw 32 bytes, never option-wrapped.
type ExitCustodyArgs struct {
	SafePolicyAuthority   solana.PublicKey
	Authority             solana.PublicKey
	Vault                 solana.PublicKey
	Recipient             solana.PublicKey
	AssetType             AssetType
	VaultTokenAccount     *solana.PublicKey
	RecipientTokenAccount *solana.PublicKey
	Mint                  *solana.PublicKey
	TokenProgram          *solana.PublicKey
}

// NewExitCustodyInstruction builds the ExitCustody instruction.
func NewExitCustodyInstruction(args ExitCustodyArgs) (solana.Instruction, error) {
	safePolicy, _, err := GetSafePolicyPDA(args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}

	orSystem := func(key *solana.PublicKey) solana.PublicKey {
		if key != nil {
			return *key
		}
		return solana.SystemProgramID
	}

	data := new(bytes.Buffer)
	data.Write(Instruction_ExitCustody[:])
	data.WriteByte(byte(args.AssetType))
	data.Write(args.Recipient.Bytes())

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(safePolicy),
			solana.Meta(args.Vault).WRITE(),
			solana.Meta(orSystem(args.VaultTokenAccount)).WRITE(),
			solana.Meta(args.Recipient).WRITE(),
			solana.Meta(orSystem(args.RecipientTokenAccount)).WRITE(),
			solana.Meta(orSystem(args.Mint)),
			solana.Meta(args.Authority).SIGNER(),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(orSystem(args.TokenProgram)),
		},
		data.Bytes(),
	), nil
}
