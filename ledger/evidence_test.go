package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvidenceFixture(t *testing.T) (*EvidenceManager, string, solana.PublicKey) {
	t.Helper()

	manager := newKey()
	roles := NewRoleModel()
	roles.AssignRole(manager, RoleCaseManager)

	cases := NewCaseManager(roles, NewMemoryStore[*CaseState]())
	state, err := cases.Intake(manager, CaseIntake{
		DisputeID:  "dispute-1",
		Challenger: newKey(),
		Challenged: newKey(),
	})
	require.NoError(t, err)

	evidence := NewEvidenceManager(roles, cases, NewMemoryStore[*EvidenceState]())
	return evidence, state.CaseID, manager
}

func TestAnchorEvidence(t *testing.T) {
	evidence, caseID, submitter := newEvidenceFixture(t)

	anchors, err := evidence.AnchorEvidence(caseID, submitter, []EvidenceRef{
		{URI: "ipfs://doc-a"},
		{URI: "ipfs://doc-b", Hash: ComputeEvidenceHash("ipfs://doc-b")},
	})
	require.NoError(t, err)
	require.Len(t, anchors, 2)
	assert.Equal(t, ComputeEvidenceHash("ipfs://doc-a"), anchors[0].EvidenceHash)

	assert.True(t, evidence.VerifyLinkage(caseID, anchors[0].EvidenceHash))
	assert.True(t, evidence.VerifyLinkage(caseID, anchors[1].EvidenceHash))
	assert.False(t, evidence.VerifyLinkage(caseID, "deadbeef"))
}

func TestAnchorEvidenceRejectsDuplicate(t *testing.T) {
	evidence, caseID, submitter := newEvidenceFixture(t)

	_, err := evidence.AnchorEvidence(caseID, submitter, []EvidenceRef{{URI: "ipfs://doc-a"}})
	require.NoError(t, err)

	_, err = evidence.AnchorEvidence(caseID, submitter, []EvidenceRef{{URI: "ipfs://doc-a"}})
	require.ErrorIs(t, err, ErrEvidenceAlreadyAnchored)
}

func TestAnchorEvidenceRejectsHashMismatch(t *testing.T) {
	evidence, caseID, submitter := newEvidenceFixture(t)

	_, err := evidence.AnchorEvidence(caseID, submitter, []EvidenceRef{
		{URI: "ipfs://doc-a", Hash: "0000"},
	})
	require.ErrorIs(t, err, ErrEvidenceHashMismatch)

	// Nothing from the rejected batch lands.
	assert.Empty(t, evidence.Anchors(caseID))
}

func TestAnchorEvidenceBatchIsAtomic(t *testing.T) {
	evidence, caseID, submitter := newEvidenceFixture(t)

	// Second ref in the batch duplicates the first; the whole batch fails.
	_, err := evidence.AnchorEvidence(caseID, submitter, []EvidenceRef{
		{URI: "ipfs://doc-a"},
		{URI: "ipfs://doc-a"},
	})
	require.ErrorIs(t, err, ErrEvidenceAlreadyAnchored)
	assert.Empty(t, evidence.Anchors(caseID))
}

func TestAnchorEvidenceUnknownCase(t *testing.T) {
	evidence, _, submitter := newEvidenceFixture(t)

	_, err := evidence.AnchorEvidence("missing", submitter, []EvidenceRef{{URI: "ipfs://doc"}})
	require.ErrorIs(t, err, ErrCaseNotFound)
}

func TestAnchorEvidenceRequiresPermission(t *testing.T) {
	evidence, caseID, _ := newEvidenceFixture(t)

	_, err := evidence.AnchorEvidence(caseID, newKey(), []EvidenceRef{{URI: "ipfs://doc"}})
	require.Error(t, err)
	assert.IsType(t, &AuthorizationError{}, err)
}
