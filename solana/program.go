package safe_treasury

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID is the deployed safe_treasury program. It matches the "address"
// field of the program IDL and is a placeholder until the program has a
// stable mainnet address.
var ProgramID = solana.MustPublicKeyFromBase58("9yMpZraAc4pFvg4DXTT3rhvUvdh2xGQUdiNLQ1bwEhCD")

var Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

// Instruction discriminators. These are fixed 8-byte constants from the
// program IDL; they are never recomputed at runtime.
var (
	Instruction_InitializeSafePolicy = [8]byte{224, 246, 214, 53, 134, 77, 214, 125}
	Instruction_RegisterTreasury     = [8]byte{92, 138, 83, 179, 120, 40, 252, 157}
	Instruction_QueuePayout          = [8]byte{10, 91, 65, 13, 252, 117, 130, 76}
	Instruction_ChallengePayout      = [8]byte{128, 122, 229, 7, 139, 210, 241, 49}
	Instruction_RecordRuling         = [8]byte{176, 44, 173, 34, 129, 227, 28, 153}
	Instruction_ReleaseNativePayout  = [8]byte{66, 117, 20, 254, 69, 51, 158, 87}
	Instruction_ReleaseSplPayout     = [8]byte{203, 147, 38, 39, 247, 105, 86, 226}
	Instruction_ExitCustody          = [8]byte{234, 163, 1, 157, 45, 41, 60, 173}
)

// Account discriminators, first 8 bytes of every account owned by the program.
var (
	Account_SafePolicy = [8]byte{24, 6, 116, 10, 196, 40, 74, 112}
	Account_Payout     = [8]byte{69, 45, 245, 131, 218, 101, 158, 228}
)

// AssetType matches the on-chain AssetType enum discriminants.
type AssetType uint8

const (
	AssetType_Native AssetType = iota
	AssetType_Spl
	AssetType_Spl2022
	AssetType_Nft
)

// Label returns the display name for an asset type.
func (a AssetType) Label() string {
	switch a {
	case AssetType_Native:
		return "Native"
	case AssetType_Spl:
		return "SPL"
	case AssetType_Spl2022:
		return "SPL2022"
	case AssetType_Nft:
		return "NFT"
	default:
		return fmt.Sprintf("Unknown (%d)", uint8(a))
	}
}

// IsValid reports whether the discriminant is a known asset type.
func (a AssetType) IsValid() bool {
	return a <= AssetType_Nft
}

// PayoutStatus matches the on-chain PayoutStatus enum discriminants.
type PayoutStatus uint8

const (
	PayoutStatus_Queued PayoutStatus = iota
	PayoutStatus_Challenged
	PayoutStatus_Released
	PayoutStatus_Cancelled
	PayoutStatus_Denied
)

func (s PayoutStatus) Label() string {
	switch s {
	case PayoutStatus_Queued:
		return "Queued"
	case PayoutStatus_Challenged:
		return "Challenged"
	case PayoutStatus_Released:
		return "Released"
	case PayoutStatus_Cancelled:
		return "Cancelled"
	case PayoutStatus_Denied:
		return "Denied"
	default:
		return fmt.Sprintf("Unknown (%d)", uint8(s))
	}
}

func (s PayoutStatus) IsValid() bool {
	return s <= PayoutStatus_Denied
}

// RulingOutcome matches the on-chain RulingOutcome enum discriminants.
type RulingOutcome uint8

const (
	RulingOutcome_Allow RulingOutcome = iota
	RulingOutcome_Deny
)

// AuthorizationMode selects how a RecordRuling instruction is authorized.
type AuthorizationMode uint8

const (
	AuthorizationMode_Resolver AuthorizationMode = iota
	AuthorizationMode_Proposal
)

// TreasuryMode matches the on-chain TreasuryMode enum discriminants.
type TreasuryMode uint8

const (
	TreasuryMode_SafeCustodied TreasuryMode = iota
	TreasuryMode_Legacy
)
