package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// RulingOutcome is the disposition of an arbitration round.
type RulingOutcome string

const (
	RulingGranted   RulingOutcome = "granted"
	RulingDenied    RulingOutcome = "denied"
	RulingDismissed RulingOutcome = "dismissed"
	RulingRemanded  RulingOutcome = "remanded"
)

// outcomePriority fixes the deterministic scan order for majority checks.
var outcomePriority = []RulingOutcome{RulingGranted, RulingDenied, RulingDismissed, RulingRemanded}

// DecisionPolicy records how the outcome was reached.
type DecisionPolicy string

const (
	DecisionMajority  DecisionPolicy = "majority"
	DecisionUnanimous DecisionPolicy = "unanimous"
	DecisionSole      DecisionPolicy = "sole"
)

// RulingVote is one arbitrator's vote.
type RulingVote struct {
	Arbitrator solana.PublicKey
	Outcome    RulingOutcome
	Rationale  string
	VotedAt    time.Time
}

// RulingInput is everything a ruling payload binds.
type RulingInput struct {
	CaseID         string
	DisputeID      string
	Round          int
	TribunalPolicy TribunalPolicy
	Votes          []RulingVote
	EvidenceHashes []string
}

// RulingPayload is a compiled, hash-bound ruling ready for on-chain
// submission.
type RulingPayload struct {
	CaseID         string
	DisputeID      string
	Round          int
	TribunalPolicy TribunalPolicy
	Outcome        RulingOutcome
	DecisionPolicy DecisionPolicy
	VoteCount      map[RulingOutcome]int
	EvidenceHashes []string
	CompiledAt     time.Time
	PayloadHash    string
}

// RulingState is a recorded ruling, write-once per (caseId, round).
type RulingState struct {
	CaseID         string
	DisputeID      string
	Round          int
	Outcome        RulingOutcome
	DecisionPolicy DecisionPolicy
	PayloadHash    string
	ExecutedAt     time.Time
	ProposalID     string
}

// voteBinding and rulingBinding fix the canonical JSON the payload hash
// commits to. Field order and key names are part of the hashing contract
// shared with other ledger clients; the votes field is itself a JSON string
// of the arbitrator-sorted vote list.
type voteBinding struct {
	Arbitrator string        `json:"arbitrator"`
	Outcome    RulingOutcome `json:"outcome"`
}

type rulingBinding struct {
	CaseID         string         `json:"caseId"`
	DisputeID      string         `json:"disputeId"`
	Round          int            `json:"round"`
	TribunalPolicy TribunalPolicy `json:"tribunalPolicy"`
	Votes          string         `json:"votes"`
	EvidenceHashes []string       `json:"evidenceHashes"`
}

// RulingCompiler compiles ruling payloads and records them write-once.
type RulingCompiler struct {
	mu      sync.Mutex
	rulings Store[*RulingState]
}

func NewRulingCompiler(rulings Store[*RulingState]) *RulingCompiler {
	return &RulingCompiler{rulings: rulings}
}

// CompilePayload validates the input bindings, determines the outcome and
// decision policy, and produces the canonical payload hash. The hash is
// invariant under vote order and evidence hash order.
func (c *RulingCompiler) CompilePayload(input RulingInput) (*RulingPayload, error) {
	if input.CaseID == "" {
		return nil, fmt.Errorf("canonical binding required: caseId")
	}
	if input.DisputeID == "" {
		return nil, fmt.Errorf("canonical binding required: disputeId")
	}
	if input.Round < 0 {
		return nil, fmt.Errorf("canonical binding required: round")
	}
	if input.TribunalPolicy == "" {
		return nil, fmt.Errorf("canonical binding required: tribunalPolicy")
	}
	if len(input.Votes) == 0 {
		return nil, fmt.Errorf("canonical binding required: votes")
	}

	voteCount := make(map[RulingOutcome]int, len(outcomePriority))
	for _, outcome := range outcomePriority {
		voteCount[outcome] = 0
	}
	for _, vote := range input.Votes {
		voteCount[vote.Outcome]++
	}

	outcome := determineOutcome(input.Votes, voteCount, input.TribunalPolicy)
	policy := determineDecisionPolicy(input.Votes, voteCount, input.TribunalPolicy)

	sortedHashes := append([]string(nil), input.EvidenceHashes...)
	sort.Strings(sortedHashes)
	if sortedHashes == nil {
		sortedHashes = []string{}
	}

	hash, err := computePayloadHash(input, sortedHashes)
	if err != nil {
		return nil, err
	}

	return &RulingPayload{
		CaseID:         input.CaseID,
		DisputeID:      input.DisputeID,
		Round:          input.Round,
		TribunalPolicy: input.TribunalPolicy,
		Outcome:        outcome,
		DecisionPolicy: policy,
		VoteCount:      voteCount,
		EvidenceHashes: sortedHashes,
		CompiledAt:     time.Now(),
		PayloadHash:    hash,
	}, nil
}

func computePayloadHash(input RulingInput, sortedHashes []string) (string, error) {
	votes := make([]voteBinding, 0, len(input.Votes))
	for _, vote := range input.Votes {
		votes = append(votes, voteBinding{
			Arbitrator: vote.Arbitrator.String(),
			Outcome:    vote.Outcome,
		})
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].Arbitrator < votes[j].Arbitrator
	})

	voteJSON, err := json.Marshal(votes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal votes: %w", err)
	}

	canonical, err := json.Marshal(rulingBinding{
		CaseID:         input.CaseID,
		DisputeID:      input.DisputeID,
		Round:          input.Round,
		TribunalPolicy: input.TribunalPolicy,
		Votes:          string(voteJSON),
		EvidenceHashes: sortedHashes,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ruling binding: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// determineOutcome picks the ruling outcome. A sole arbitrator's single vote
// is authoritative. Otherwise the first outcome in priority order with a
// strict majority wins, and a hung tribunal dismisses.
func determineOutcome(votes []RulingVote, voteCount map[RulingOutcome]int, policy TribunalPolicy) RulingOutcome {
	if policy == TribunalPolicySoleArbitrator {
		return votes[0].Outcome
	}

	threshold := len(votes)/2 + 1
	for _, outcome := range outcomePriority {
		if voteCount[outcome] >= threshold {
			return outcome
		}
	}
	return RulingDismissed
}

func determineDecisionPolicy(votes []RulingVote, voteCount map[RulingOutcome]int, policy TribunalPolicy) DecisionPolicy {
	if policy == TribunalPolicySoleArbitrator {
		return DecisionSole
	}
	for _, count := range voteCount {
		if count == len(votes) {
			return DecisionUnanimous
		}
	}
	return DecisionMajority
}

func rulingKey(caseID string, round int) string {
	return fmt.Sprintf("%s:%d", caseID, round)
}

// RecordRuling records a compiled payload. Recording is write-once per
// (caseId, round); a second attempt is rejected.
func (c *RulingCompiler) RecordRuling(payload *RulingPayload, proposalID string) (*RulingState, error) {
	key := rulingKey(payload.CaseID, payload.Round)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rulings.Has(key) {
		return nil, fmt.Errorf("ruling already exists for case %s round %d", payload.CaseID, payload.Round)
	}

	state := &RulingState{
		CaseID:         payload.CaseID,
		DisputeID:      payload.DisputeID,
		Round:          payload.Round,
		Outcome:        payload.Outcome,
		DecisionPolicy: payload.DecisionPolicy,
		PayloadHash:    payload.PayloadHash,
		ExecutedAt:     payload.CompiledAt,
		ProposalID:     proposalID,
	}
	c.rulings.Put(key, state)
	return state, nil
}

// GetRuling returns the recorded ruling for a round, or false when none
// exists.
func (c *RulingCompiler) GetRuling(caseID string, round int) (*RulingState, bool) {
	return c.rulings.Get(rulingKey(caseID, round))
}

// HasRuling reports whether a ruling is recorded for the round.
func (c *RulingCompiler) HasRuling(caseID string, round int) bool {
	return c.rulings.Has(rulingKey(caseID, round))
}
