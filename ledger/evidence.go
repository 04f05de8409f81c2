package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrEvidenceAlreadyAnchored = errors.New("evidence already anchored for this case")
	ErrEvidenceNotFound        = errors.New("evidence not found")
	ErrEvidenceHashMismatch    = errors.New("evidence hash mismatch")
	ErrCaseNotFound            = errors.New("case not found")
)

// EvidenceRef is a document submitted for anchoring. Hash is optional; when
// present it must match the hash computed from the URI content address.
type EvidenceRef struct {
	URI  string
	Hash string
}

// EvidenceAnchor is one anchored piece of evidence, immutable once recorded.
type EvidenceAnchor struct {
	CaseID       string
	EvidenceHash string
	URI          string
	Submitter    solana.PublicKey
	Timestamp    time.Time
}

// EvidenceState is the set of anchors attached to one case.
type EvidenceState struct {
	CaseID  string
	Anchors []EvidenceAnchor
}

// EvidenceManager anchors evidence against docketed cases.
type EvidenceManager struct {
	mu    sync.Mutex
	roles *RoleModel
	cases *CaseManager
	store Store[*EvidenceState]
}

func NewEvidenceManager(roles *RoleModel, cases *CaseManager, store Store[*EvidenceState]) *EvidenceManager {
	return &EvidenceManager{
		roles: roles,
		cases: cases,
		store: store,
	}
}

// ComputeEvidenceHash hashes an evidence URI to its anchor hash.
func ComputeEvidenceHash(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(sum[:])
}

// AnchorEvidence anchors the given refs against a case. The whole batch is
// validated before any anchor lands: a hash mismatch or duplicate anywhere
// in the batch rejects it entirely.
func (m *EvidenceManager) AnchorEvidence(
	caseID string,
	submitter solana.PublicKey,
	refs []EvidenceRef,
) ([]EvidenceAnchor, error) {
	if _, ok := m.cases.GetCase(caseID); !ok {
		return nil, ErrCaseNotFound
	}
	if err := m.roles.CheckAuthorization(submitter, "evidence.attach"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.store.Get(caseID)
	if !ok {
		state = &EvidenceState{CaseID: caseID}
	}

	anchors := make([]EvidenceAnchor, 0, len(refs))
	seen := make(map[string]bool, len(state.Anchors))
	for _, existing := range state.Anchors {
		seen[existing.EvidenceHash] = true
	}

	for _, ref := range refs {
		computed := ComputeEvidenceHash(ref.URI)
		if ref.Hash != "" && ref.Hash != computed {
			return nil, fmt.Errorf("%w: %s", ErrEvidenceHashMismatch, ref.URI)
		}
		if seen[computed] {
			return nil, ErrEvidenceAlreadyAnchored
		}
		seen[computed] = true
		anchors = append(anchors, EvidenceAnchor{
			CaseID:       caseID,
			EvidenceHash: computed,
			URI:          ref.URI,
			Submitter:    submitter,
			Timestamp:    time.Now(),
		})
	}

	state.Anchors = append(state.Anchors, anchors...)
	m.store.Put(caseID, state)

	return anchors, nil
}

// Anchors returns the anchors recorded for a case, empty when none exist.
func (m *EvidenceManager) Anchors(caseID string) []EvidenceAnchor {
	state, ok := m.store.Get(caseID)
	if !ok {
		return nil
	}
	return state.Anchors
}

// VerifyLinkage reports whether the hash is anchored to the case.
func (m *EvidenceManager) VerifyLinkage(caseID, evidenceHash string) bool {
	for _, anchor := range m.Anchors(caseID) {
		if anchor.EvidenceHash == evidenceHash {
			return true
		}
	}
	return false
}
