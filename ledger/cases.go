package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// CaseStatus is the lifecycle state of an arbitration case.
type CaseStatus string

const (
	CaseStatusDocketed   CaseStatus = "docketed"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusConcluded  CaseStatus = "concluded"
)

// CaseIntake is the input for opening a case against an on-chain dispute.
type CaseIntake struct {
	DisputeID    string
	Challenger   solana.PublicKey
	Challenged   solana.PublicKey
	EvidenceRefs []string
}

// CaseState is one docketed case.
type CaseState struct {
	CaseID         string
	DisputeID      string
	Status         CaseStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Round          int
	EvidenceHashes []string
}

// CaseManager handles case intake and lifecycle bookkeeping.
type CaseManager struct {
	mu    sync.Mutex
	roles *RoleModel
	cases Store[*CaseState]
}

func NewCaseManager(roles *RoleModel, cases Store[*CaseState]) *CaseManager {
	return &CaseManager{
		roles: roles,
		cases: cases,
	}
}

// caseIDBinding fixes the field order of the case id preimage. The JSON key
// order is part of the hashing contract shared with other ledger clients;
// reordering fields changes every derived id.
type caseIDBinding struct {
	DisputeID  string `json:"disputeId"`
	Challenger string `json:"challenger"`
	Challenged string `json:"challenged"`
}

// DeriveCaseID derives the deterministic case id: the first 16 hex chars of
// sha256 over the canonical intake binding.
func DeriveCaseID(intake CaseIntake) string {
	data, _ := json.Marshal(caseIDBinding{
		DisputeID:  intake.DisputeID,
		Challenger: intake.Challenger.String(),
		Challenged: intake.Challenged.String(),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// Intake dockets a new case. The caller must hold case.create; a second
// intake for the same (disputeId, challenger, challenged) binding is
// rejected.
func (m *CaseManager) Intake(caseManager solana.PublicKey, intake CaseIntake) (*CaseState, error) {
	if err := m.roles.CheckAuthorization(caseManager, "case.create"); err != nil {
		return nil, err
	}

	caseID := DeriveCaseID(intake)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cases.Has(caseID) {
		return nil, fmt.Errorf("case already exists for this dispute")
	}

	hashes := make([]string, 0, len(intake.EvidenceRefs))
	for _, ref := range intake.EvidenceRefs {
		hashes = append(hashes, ComputeEvidenceHash(ref))
	}

	now := time.Now()
	state := &CaseState{
		CaseID:         caseID,
		DisputeID:      intake.DisputeID,
		Status:         CaseStatusDocketed,
		CreatedAt:      now,
		UpdatedAt:      now,
		Round:          0,
		EvidenceHashes: hashes,
	}

	m.cases.Put(caseID, state)
	return state, nil
}

func (m *CaseManager) GetCase(caseID string) (*CaseState, bool) {
	return m.cases.Get(caseID)
}

func (m *CaseManager) AllCases() []*CaseState {
	return m.cases.Values()
}

func (m *CaseManager) UpdateCaseStatus(caseID string, status CaseStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.cases.Get(caseID)
	if !ok {
		return fmt.Errorf("case not found: %s", caseID)
	}
	state.Status = status
	state.UpdatedAt = time.Now()
	return nil
}

// IncrementRound advances the case to its next arbitration round.
func (m *CaseManager) IncrementRound(caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.cases.Get(caseID)
	if !ok {
		return fmt.Errorf("case not found: %s", caseID)
	}
	state.Round++
	state.UpdatedAt = time.Now()
	return nil
}
