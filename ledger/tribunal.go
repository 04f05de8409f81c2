package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// TribunalPolicy fixes the tribunal's cardinality.
type TribunalPolicy string

const (
	TribunalPolicySoleArbitrator TribunalPolicy = "sole_arbitrator"
	TribunalPolicyThreeMember    TribunalPolicy = "three_member"
)

// TribunalStatus is the tribunal lifecycle state.
type TribunalStatus string

const (
	TribunalStatusConfigured        TribunalStatus = "configured"
	TribunalStatusConflictDisclosed TribunalStatus = "conflict_disclosed"
	TribunalStatusActive            TribunalStatus = "active"
	TribunalStatusConcluded         TribunalStatus = "concluded"
)

// ConflictStatus tracks a disclosed conflict through its lifecycle:
// disclosed, then recused, then resolved by replacement.
type ConflictStatus string

const (
	ConflictStatusDisclosed ConflictStatus = "disclosed"
	ConflictStatusRecused   ConflictStatus = "recused"
	ConflictStatusResolved  ConflictStatus = "resolved"
)

// Conflict is one disclosed conflict of interest.
type Conflict struct {
	Arbitrator  solana.PublicKey
	CaseID      string
	Status      ConflictStatus
	DisclosedAt time.Time
	ResolvedAt  *time.Time
	Replacement *solana.PublicKey
}

// TribunalState is the tribunal assigned to one case.
type TribunalState struct {
	CaseID      string
	Policy      TribunalPolicy
	Arbitrators []solana.PublicKey
	Status      TribunalStatus
	AssignedAt  time.Time
	ConfirmedAt *time.Time
	Conflicts   []*Conflict
}

// TribunalManager assigns tribunals to cases and manages conflict handling.
type TribunalManager struct {
	mu        sync.Mutex
	roles     *RoleModel
	roster    *Roster
	tribunals Store[*TribunalState]
}

func NewTribunalManager(roles *RoleModel, roster *Roster, tribunals Store[*TribunalState]) *TribunalManager {
	return &TribunalManager{
		roles:     roles,
		roster:    roster,
		tribunals: tribunals,
	}
}

// AssignTribunal seats a tribunal on a case. Requires tribunal.assign. The
// policy fixes the exact member count and every member must be actively
// rostered.
func (m *TribunalManager) AssignTribunal(
	caseManager solana.PublicKey,
	caseID string,
	policy TribunalPolicy,
	arbitrators []solana.PublicKey,
) (*TribunalState, error) {
	if err := m.roles.CheckAuthorization(caseManager, "tribunal.assign"); err != nil {
		return nil, err
	}

	switch policy {
	case TribunalPolicySoleArbitrator:
		if len(arbitrators) != 1 {
			return nil, fmt.Errorf("sole arbitrator policy requires exactly one arbitrator")
		}
	case TribunalPolicyThreeMember:
		if len(arbitrators) != 3 {
			return nil, fmt.Errorf("three-member policy requires exactly three arbitrators")
		}
	default:
		return nil, fmt.Errorf("unknown tribunal policy: %s", policy)
	}

	for _, arbitrator := range arbitrators {
		if _, ok := m.roster.GetArbitrator(arbitrator); !ok {
			return nil, fmt.Errorf("arbitrator %s not found in roster", arbitrator)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state := &TribunalState{
		CaseID:      caseID,
		Policy:      policy,
		Arbitrators: append([]solana.PublicKey(nil), arbitrators...),
		Status:      TribunalStatusConfigured,
		AssignedAt:  time.Now(),
	}
	m.tribunals.Put(caseID, state)
	return state, nil
}

func (m *TribunalManager) GetTribunal(caseID string) (*TribunalState, bool) {
	return m.tribunals.Get(caseID)
}

// DiscloseConflict records a member's conflict of interest and moves the
// tribunal to conflict_disclosed. A member may hold at most one open
// conflict at a time.
func (m *TribunalManager) DiscloseConflict(caseID string, arbitrator solana.PublicKey, reason string) (*Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return nil, fmt.Errorf("tribunal not found for case %s", caseID)
	}

	if !isMember(tribunal.Arbitrators, arbitrator) {
		return nil, fmt.Errorf("arbitrator is not a member of this tribunal")
	}

	for _, conflict := range tribunal.Conflicts {
		if conflict.Arbitrator.Equals(arbitrator) && conflict.Status != ConflictStatusResolved {
			return nil, fmt.Errorf("conflict already disclosed for this arbitrator")
		}
	}

	conflict := &Conflict{
		Arbitrator:  arbitrator,
		CaseID:      caseID,
		Status:      ConflictStatusDisclosed,
		DisclosedAt: time.Now(),
	}
	tribunal.Conflicts = append(tribunal.Conflicts, conflict)
	tribunal.Status = TribunalStatusConflictDisclosed

	return conflict, nil
}

// RecuseArbitrator moves a disclosed conflict to recused.
func (m *TribunalManager) RecuseArbitrator(caseID string, arbitrator solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return fmt.Errorf("tribunal not found for case %s", caseID)
	}

	for _, conflict := range tribunal.Conflicts {
		if conflict.Arbitrator.Equals(arbitrator) && conflict.Status == ConflictStatusDisclosed {
			conflict.Status = ConflictStatusRecused
			return nil
		}
	}
	return fmt.Errorf("no disclosed conflict found for this arbitrator")
}

// ReplaceArbitrator resolves a recused member's conflict by seating a
// rostered replacement in their slot. The replacement must be distinct from
// the recused member, not already seated, and free of open conflicts on
// this case. When no unresolved conflicts remain the tribunal returns to
// configured.
func (m *TribunalManager) ReplaceArbitrator(caseID string, recused, replacement solana.PublicKey) error {
	if _, ok := m.roster.GetArbitrator(replacement); !ok {
		return fmt.Errorf("arbitrator %s not found in roster", replacement)
	}
	if replacement.Equals(recused) {
		return fmt.Errorf("replacement must differ from the recused arbitrator")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return fmt.Errorf("tribunal not found for case %s", caseID)
	}

	if isMember(tribunal.Arbitrators, replacement) {
		return fmt.Errorf("replacement is already a member of this tribunal")
	}
	for _, candidate := range tribunal.Conflicts {
		if candidate.Arbitrator.Equals(replacement) && candidate.Status != ConflictStatusResolved {
			return fmt.Errorf("replacement has an unresolved conflict on this case")
		}
	}

	var conflict *Conflict
	for _, candidate := range tribunal.Conflicts {
		if candidate.Arbitrator.Equals(recused) && candidate.Status == ConflictStatusRecused {
			conflict = candidate
			break
		}
	}
	if conflict == nil {
		return fmt.Errorf("arbitrator is not recused")
	}

	seated := false
	for i, member := range tribunal.Arbitrators {
		if member.Equals(recused) {
			tribunal.Arbitrators[i] = replacement
			seated = true
			break
		}
	}
	if !seated {
		return fmt.Errorf("arbitrator not found in tribunal")
	}

	now := time.Now()
	conflict.Replacement = &replacement
	conflict.Status = ConflictStatusResolved
	conflict.ResolvedAt = &now

	if !hasUnresolvedConflicts(tribunal) {
		tribunal.Status = TribunalStatusConfigured
	}
	return nil
}

// CanConfirmTribunal reports whether the tribunal may be confirmed: it must
// be configured or in conflict handling with every conflict resolved.
func (m *TribunalManager) CanConfirmTribunal(caseID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return false
	}
	if tribunal.Status != TribunalStatusConfigured && tribunal.Status != TribunalStatusConflictDisclosed {
		return false
	}
	return !hasUnresolvedConflicts(tribunal)
}

// ConfirmTribunal activates the tribunal.
func (m *TribunalManager) ConfirmTribunal(caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return fmt.Errorf("tribunal not found for case %s", caseID)
	}
	now := time.Now()
	tribunal.Status = TribunalStatusActive
	tribunal.ConfirmedAt = &now
	return nil
}

// HasUnresolvedConflicts reports whether any member still has an open
// conflict.
func (m *TribunalManager) HasUnresolvedConflicts(caseID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return false
	}
	return hasUnresolvedConflicts(tribunal)
}

// IsPolicyCompliant reports whether the conflict-free member count matches
// the policy's cardinality.
func (m *TribunalManager) IsPolicyCompliant(caseID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	tribunal, ok := m.tribunals.Get(caseID)
	if !ok {
		return false
	}

	active := 0
	for _, member := range tribunal.Arbitrators {
		open := false
		for _, conflict := range tribunal.Conflicts {
			if conflict.Arbitrator.Equals(member) && conflict.Status != ConflictStatusResolved {
				open = true
				break
			}
		}
		if !open {
			active++
		}
	}

	switch tribunal.Policy {
	case TribunalPolicySoleArbitrator:
		return active == 1
	case TribunalPolicyThreeMember:
		return active == 3
	}
	return false
}

func isMember(members []solana.PublicKey, candidate solana.PublicKey) bool {
	for _, member := range members {
		if member.Equals(candidate) {
			return true
		}
	}
	return false
}

func hasUnresolvedConflicts(tribunal *TribunalState) bool {
	for _, conflict := range tribunal.Conflicts {
		if conflict.Status != ConflictStatusResolved {
			return true
		}
	}
	return false
}
