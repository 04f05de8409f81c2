package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tribunalFixture struct {
	tribunals   *TribunalManager
	roster      *Roster
	admin       solana.PublicKey
	caseManager solana.PublicKey
	arbitrators []solana.PublicKey
}

func newTribunalFixture(t *testing.T, rostered int) *tribunalFixture {
	t.Helper()

	admin := newKey()
	caseManager := newKey()
	roles := NewRoleModel()
	roles.AssignRole(admin, RoleAdmin)
	roles.AssignRole(caseManager, RoleCaseManager)

	roster := NewRoster(roles)
	arbitrators := make([]solana.PublicKey, 0, rostered)
	for i := 0; i < rostered; i++ {
		arbitrator := newKey()
		roles.AssignRole(arbitrator, RoleArbitrator)
		_, err := roster.AddArbitrator(admin, arbitrator, "Arbitrator")
		require.NoError(t, err)
		arbitrators = append(arbitrators, arbitrator)
	}

	return &tribunalFixture{
		tribunals:   NewTribunalManager(roles, roster, NewMemoryStore[*TribunalState]()),
		roster:      roster,
		admin:       admin,
		caseManager: caseManager,
		arbitrators: arbitrators,
	}
}

func TestAssignTribunalCardinality(t *testing.T) {
	f := newTribunalFixture(t, 3)

	_, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicySoleArbitrator, f.arbitrators[:2])
	require.Error(t, err)

	_, err = f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, f.arbitrators[:2])
	require.Error(t, err)

	state, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, f.arbitrators)
	require.NoError(t, err)
	assert.Equal(t, TribunalStatusConfigured, state.Status)
	assert.True(t, f.tribunals.IsPolicyCompliant("case-1"))
}

func TestAssignTribunalRequiresRosteredMembers(t *testing.T) {
	f := newTribunalFixture(t, 0)

	_, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicySoleArbitrator, []solana.PublicKey{newKey()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in roster")
}

func TestAssignTribunalRequiresPermission(t *testing.T) {
	f := newTribunalFixture(t, 1)

	_, err := f.tribunals.AssignTribunal(newKey(), "case-1", TribunalPolicySoleArbitrator, f.arbitrators)
	require.Error(t, err)
	assert.IsType(t, &AuthorizationError{}, err)
}

func TestConflictLifecycleWithReplacement(t *testing.T) {
	// Three seated members plus a rostered spare for the replacement.
	f := newTribunalFixture(t, 4)
	seated := f.arbitrators[:3]
	spare := f.arbitrators[3]

	_, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, seated)
	require.NoError(t, err)
	assert.True(t, f.tribunals.CanConfirmTribunal("case-1"))

	conflicted := seated[0]
	_, err = f.tribunals.DiscloseConflict("case-1", conflicted, "prior engagement with challenger")
	require.NoError(t, err)

	state, _ := f.tribunals.GetTribunal("case-1")
	assert.Equal(t, TribunalStatusConflictDisclosed, state.Status)
	assert.False(t, f.tribunals.CanConfirmTribunal("case-1"))
	assert.False(t, f.tribunals.IsPolicyCompliant("case-1"))

	require.NoError(t, f.tribunals.RecuseArbitrator("case-1", conflicted))
	assert.False(t, f.tribunals.CanConfirmTribunal("case-1"))

	require.NoError(t, f.tribunals.ReplaceArbitrator("case-1", conflicted, spare))
	assert.True(t, f.tribunals.CanConfirmTribunal("case-1"))
	assert.True(t, f.tribunals.IsPolicyCompliant("case-1"))

	// The replacement takes the recused member's seat; the others keep theirs.
	state, _ = f.tribunals.GetTribunal("case-1")
	assert.Equal(t, []solana.PublicKey{spare, seated[1], seated[2]}, state.Arbitrators)
	assert.Equal(t, TribunalStatusConfigured, state.Status)

	require.NoError(t, f.tribunals.ConfirmTribunal("case-1"))
	state, _ = f.tribunals.GetTribunal("case-1")
	assert.Equal(t, TribunalStatusActive, state.Status)
	require.NotNil(t, state.ConfirmedAt)
}

func TestDiscloseConflictValidation(t *testing.T) {
	f := newTribunalFixture(t, 3)

	_, err := f.tribunals.DiscloseConflict("missing", f.arbitrators[0], "reason")
	require.Error(t, err)

	_, err = f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, f.arbitrators)
	require.NoError(t, err)

	// Non-members cannot disclose.
	_, err = f.tribunals.DiscloseConflict("case-1", newKey(), "reason")
	require.Error(t, err)

	_, err = f.tribunals.DiscloseConflict("case-1", f.arbitrators[0], "reason")
	require.NoError(t, err)

	// A second open conflict for the same member is rejected.
	_, err = f.tribunals.DiscloseConflict("case-1", f.arbitrators[0], "another reason")
	require.Error(t, err)
}

func TestReplaceArbitratorValidation(t *testing.T) {
	f := newTribunalFixture(t, 4)
	seated := f.arbitrators[:3]
	spare := f.arbitrators[3]

	_, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, seated)
	require.NoError(t, err)

	// Replacement requires a prior recusal.
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], spare)
	require.Error(t, err)

	_, err = f.tribunals.DiscloseConflict("case-1", seated[0], "reason")
	require.NoError(t, err)
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], spare)
	require.Error(t, err)

	require.NoError(t, f.tribunals.RecuseArbitrator("case-1", seated[0]))

	// Replacement must be rostered.
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], newKey())
	require.Error(t, err)

	require.NoError(t, f.tribunals.ReplaceArbitrator("case-1", seated[0], spare))
}

func TestReplaceArbitratorRejectsConflictedReplacements(t *testing.T) {
	f := newTribunalFixture(t, 5)
	seated := f.arbitrators[:3]
	spare := f.arbitrators[3]

	_, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicyThreeMember, seated)
	require.NoError(t, err)

	_, err = f.tribunals.DiscloseConflict("case-1", seated[0], "reason")
	require.NoError(t, err)
	require.NoError(t, f.tribunals.RecuseArbitrator("case-1", seated[0]))

	// A recused member cannot reseat themselves.
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], seated[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")

	// Another currently seated member cannot fill the seat.
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], seated[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a member")

	// The seat stays with the recused member and the tribunal stays blocked.
	state, _ := f.tribunals.GetTribunal("case-1")
	assert.Equal(t, seated, state.Arbitrators)
	assert.False(t, f.tribunals.CanConfirmTribunal("case-1"))

	// A second recused member cannot fill the first seat either.
	_, err = f.tribunals.DiscloseConflict("case-1", seated[1], "reason")
	require.NoError(t, err)
	err = f.tribunals.ReplaceArbitrator("case-1", seated[0], seated[1])
	require.Error(t, err)

	require.NoError(t, f.tribunals.ReplaceArbitrator("case-1", seated[0], spare))
	assert.False(t, f.tribunals.CanConfirmTribunal("case-1"))
}

func TestSoleArbitratorTribunal(t *testing.T) {
	f := newTribunalFixture(t, 1)

	state, err := f.tribunals.AssignTribunal(f.caseManager, "case-1", TribunalPolicySoleArbitrator, f.arbitrators)
	require.NoError(t, err)
	assert.Equal(t, TribunalPolicySoleArbitrator, state.Policy)
	assert.True(t, f.tribunals.CanConfirmTribunal("case-1"))
	assert.True(t, f.tribunals.IsPolicyCompliant("case-1"))
}
