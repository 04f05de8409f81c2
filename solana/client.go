package safe_treasury

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client is a client for the safe_treasury (dispute safe) program.
type Client struct {
	RpcClient *rpc.Client
	Signer    solana.PrivateKey
}

// NewClient creates a new Client with a specific signer.
func NewClient(rpcEndpoint string, signer solana.PrivateKey) (*Client, error) {
	rpcClient := rpc.New(rpcEndpoint)

	return &Client{
		RpcClient: rpcClient,
		Signer:    signer,
	}, nil
}

// NewReadOnlyClient creates a new client for read-only operations that don't
// require a signer. It uses a dummy keypair internally.
func NewReadOnlyClient(rpcEndpoint string) (*Client, error) {
	rpcClient := rpc.New(rpcEndpoint)

	dummyWallet := solana.NewWallet()

	return &Client{
		RpcClient: rpcClient,
		Signer:    dummyWallet.PrivateKey,
	}, nil
}

// FetchSafePolicy fetches and parses the SafePolicy account for an authority.
func (c *Client) FetchSafePolicy(ctx context.Context, authority solana.PublicKey) (*SafePolicy, error) {
	safePolicyPDA, _, err := GetSafePolicyPDA(authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive safe policy PDA: %w", err)
	}

	resp, err := c.RpcClient.GetAccountInfoWithOpts(ctx, safePolicyPDA, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get safe policy account info: %w", err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("safe policy account not found")
	}

	return ParseAccount_SafePolicy(resp.Value.Data.GetBinary())
}

// FetchPayoutState fetches and parses a single Payout account by address.
func (c *Client) FetchPayoutState(ctx context.Context, payoutAddress solana.PublicKey) (*Payout, error) {
	resp, err := c.RpcClient.GetAccountInfoWithOpts(ctx, payoutAddress, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payout account info: %w", err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("payout account not found")
	}

	return ParseAccount_Payout(resp.Value.Data.GetBinary())
}

// PayoutResult wraps a decoded Payout account with its address.
type PayoutResult struct {
	PublicKey solana.PublicKey
	Account   Payout
}

// FetchPayoutQueue fetches every Payout account embedding the given safe,
// using server-side memcmp filters on the account discriminator and the safe
// field offset. Accounts that fail to decode are skipped with a warning so
// one malformed account never aborts the rest of the scan.
func (c *Client) FetchPayoutQueue(ctx context.Context, safe solana.PublicKey) ([]*PayoutResult, error) {
	resp, err := c.RpcClient.GetProgramAccountsWithOpts(
		ctx,
		ProgramID,
		&rpc.GetProgramAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Filters: []rpc.RPCFilter{
				{
					Memcmp: &rpc.RPCFilterMemcmp{
						Offset: 0,
						Bytes:  Account_Payout[:],
					},
				},
				{
					Memcmp: &rpc.RPCFilterMemcmp{
						Offset: PayoutSafeOffset,
						Bytes:  safe.Bytes(),
					},
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts for payouts: %w", err)
	}

	var results []*PayoutResult
	for _, item := range resp {
		payout, err := ParseAccount_Payout(item.Account.Data.GetBinary())
		if err != nil {
			fmt.Printf("Warning: failed to parse a Payout account at %s: %v\n", item.Pubkey.String(), err)
			continue
		}
		results = append(results, &PayoutResult{
			PublicKey: item.Pubkey,
			Account:   *payout,
		})
	}

	return sortPayoutResults(results), nil
}

// sortPayoutResults deduplicates by address and orders by payout id
// descending. Ids are unique by construction so no tie-break is defined.
func sortPayoutResults(results []*PayoutResult) []*PayoutResult {
	seen := make(map[solana.PublicKey]bool, len(results))
	unique := make([]*PayoutResult, 0, len(results))
	for _, result := range results {
		if seen[result.PublicKey] {
			continue
		}
		seen[result.PublicKey] = true
		unique = append(unique, result)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Account.PayoutID > unique[j].Account.PayoutID
	})
	return unique
}

// IsLikelyStalePayoutStateError reports whether a transaction error looks
// like the on-chain state moved between read and submit (already finalized,
// wrong status for the attempted transition). Callers should re-fetch and let
// the user retry rather than resubmitting blindly.
func IsLikelyStalePayoutStateError(message string) bool {
	normalized := strings.ToLower(message)

	return strings.Contains(normalized, "invalidstatetransition") ||
		strings.Contains(normalized, "payoutnotchallengeable") ||
		strings.Contains(normalized, "recipientmismatch") ||
		strings.Contains(normalized, "alreadyfinalized")
}

// InitializeSafePolicy sends a transaction creating the signer's safe policy.
func (c *Client) InitializeSafePolicy(ctx context.Context, args InitializeSafePolicyArgs) (*solana.Signature, error) {
	args.Authority = c.Signer.PublicKey()

	instruction, err := NewInitializeSafePolicyInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create InitializeSafePolicy instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// RegisterTreasury sends a transaction registering a safe in the treasury
// registry.
func (c *Client) RegisterTreasury(ctx context.Context, safe solana.PublicKey, mode TreasuryMode) (*solana.Signature, error) {
	instruction, err := NewRegisterTreasuryInstruction(RegisterTreasuryArgs{
		Authority: c.Signer.PublicKey(),
		Safe:      safe,
		Mode:      mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create RegisterTreasury instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// QueuePayout reads the policy's payout_count and sends a QueuePayout
// transaction for the next index. The count is read immediately before
// deriving the Payout address: the read-then-derive race against concurrent
// queuers is resolved by the program rejecting index collisions atomically,
// not by local serialization.
func (c *Client) QueuePayout(ctx context.Context, args QueuePayoutArgs) (*solana.Signature, error) {
	policy, err := c.FetchSafePolicy(ctx, args.SafePolicyAuthority)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch safe policy for payout index: %w", err)
	}
	args.PayoutIndex = policy.PayoutCount
	args.Payer = c.Signer.PublicKey()

	instruction, err := NewQueuePayoutInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create QueuePayout instruction: %w", err)
	}

	// Cross-check the payout PDA the builder embedded against an
	// independently derived one. A mismatch means seed drift and would
	// silently misdirect funds, so it fails the build.
	expected, _, err := GetPayoutPDA(args.Safe, args.PayoutIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payout PDA for cross-check: %w", err)
	}
	if !instruction.Accounts()[0].PublicKey.Equals(expected) {
		return nil, fmt.Errorf("payout PDA mismatch: instruction has %s, derived %s",
			instruction.Accounts()[0].PublicKey, expected)
	}

	return c.signAndSend(ctx, instruction)
}

// ChallengePayout sends a transaction bonding a challenge against a queued
// payout, with the signer as challenger.
func (c *Client) ChallengePayout(ctx context.Context, args ChallengePayoutArgs) (*solana.Signature, error) {
	args.Challenger = c.Signer.PublicKey()

	instruction, err := NewChallengePayoutInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChallengePayout instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// RecordRuling sends a transaction recording a ruling for a challenged
// payout.
func (c *Client) RecordRuling(ctx context.Context, args RecordRulingArgs) (*solana.Signature, error) {
	instruction, err := NewRecordRulingInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create RecordRuling instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// ReleasePayout sends a release transaction for a release-ready payout.
func (c *Client) ReleasePayout(ctx context.Context, args ReleasePayoutArgs) (*solana.Signature, error) {
	instruction, err := NewReleasePayoutInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create ReleasePayout instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// ExitCustody sends a transaction withdrawing assets out of safe custody,
// with the signer as policy authority.
func (c *Client) ExitCustody(ctx context.Context, args ExitCustodyArgs) (*solana.Signature, error) {
	args.Authority = c.Signer.PublicKey()

	instruction, err := NewExitCustodyInstruction(args)
	if err != nil {
		return nil, fmt.Errorf("failed to create ExitCustody instruction: %w", err)
	}

	return c.signAndSend(ctx, instruction)
}

// FindEligibilityTokenAccount scans the owner's token accounts (legacy and
// Token-2022) for one holding at least minBalance of the eligibility mint,
// as required to post a challenge bond. Returns nil when the owner holds no
// qualifying account.
func (c *Client) FindEligibilityTokenAccount(
	ctx context.Context,
	owner solana.PublicKey,
	eligibilityMint solana.PublicKey,
	minBalance uint64,
) (*solana.PublicKey, error) {
	programs := []solana.PublicKey{solana.TokenProgramID, Token2022ProgramID}

	for _, program := range programs {
		resp, err := c.RpcClient.GetTokenAccountsByOwner(
			ctx,
			owner,
			&rpc.GetTokenAccountsConfig{ProgramId: &program},
			&rpc.GetTokenAccountsOpts{Commitment: rpc.CommitmentConfirmed},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get token accounts for owner: %w", err)
		}

		for _, item := range resp.Value {
			data := item.Account.Data.GetBinary()
			// SPL token account layout: mint at [0,32), amount u64 LE at 64.
			if len(data) < 72 {
				continue
			}
			mint := solana.PublicKeyFromBytes(data[:32])
			amount := binary.LittleEndian.Uint64(data[64:72])
			if mint.Equals(eligibilityMint) && amount >= minBalance {
				pubkey := item.Pubkey
				return &pubkey, nil
			}
		}
	}

	return nil, nil
}

// GetBalance returns the lamport balance of an account.
func (c *Client) GetBalance(pubkey solana.PublicKey) (uint64, error) {
	resp, err := c.RpcClient.GetBalance(context.Background(), pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return resp.Value, nil
}

// signAndSend builds, signs and submits a single-instruction transaction.
func (c *Client) signAndSend(ctx context.Context, instruction solana.Instruction) (*solana.Signature, error) {
	latestBlockhash, err := c.RpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		latestBlockhash.Value.Blockhash,
		solana.TransactionPayer(c.Signer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			if c.Signer.PublicKey().Equals(key) {
				return &c.Signer
			}
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.RpcClient.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return &sig, nil
}
