package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// RosterAction is the kind of a roster audit record.
type RosterAction string

const (
	RosterActionAdd    RosterAction = "add"
	RosterActionRemove RosterAction = "remove"
)

// RosterEntry is one arbitrator listing. Removal is a soft delete: RemovedAt
// is set and the entry stays in the history.
type RosterEntry struct {
	Arbitrator solana.PublicKey
	Name       string
	Version    int
	AddedAt    time.Time
	RemovedAt  *time.Time
}

// RosterAuditRecord is one append-only audit line. Every mutation bumps the
// roster version and leaves a record.
type RosterAuditRecord struct {
	Action          RosterAction
	Arbitrator      solana.PublicKey
	Version         int
	Timestamp       time.Time
	PreviousVersion int
}

// Roster is the versioned arbitrator roster.
type Roster struct {
	mu           sync.Mutex
	roles        *RoleModel
	entries      []*RosterEntry
	version      int
	updatedAt    time.Time
	auditRecords []RosterAuditRecord
}

func NewRoster(roles *RoleModel) *Roster {
	return &Roster{
		roles:     roles,
		version:   1,
		updatedAt: time.Now(),
	}
}

// AddArbitrator lists a new arbitrator. Requires roster.add; re-adding an
// active listing is rejected, but a removed arbitrator may be listed again.
func (r *Roster) AddArbitrator(admin, arbitrator solana.PublicKey, name string) (*RosterEntry, error) {
	if err := r.roles.CheckAuthorization(admin, "roster.add"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findActive(arbitrator) != nil {
		return nil, fmt.Errorf("arbitrator already exists in roster")
	}

	entry := &RosterEntry{
		Arbitrator: arbitrator,
		Name:       name,
		Version:    r.version,
		AddedAt:    time.Now(),
	}
	r.entries = append(r.entries, entry)
	r.version++
	r.updatedAt = time.Now()

	r.auditRecords = append(r.auditRecords, RosterAuditRecord{
		Action:     RosterActionAdd,
		Arbitrator: arbitrator,
		Version:    r.version,
		Timestamp:  time.Now(),
	})

	return entry, nil
}

// RemoveArbitrator soft-deletes an active listing. Requires roster.remove.
func (r *Roster) RemoveArbitrator(admin, arbitrator solana.PublicKey) error {
	if err := r.roles.CheckAuthorization(admin, "roster.remove"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.findActive(arbitrator)
	if entry == nil {
		return fmt.Errorf("arbitrator not found in roster")
	}

	previousVersion := entry.Version
	now := time.Now()
	entry.RemovedAt = &now
	r.version++
	r.updatedAt = now

	r.auditRecords = append(r.auditRecords, RosterAuditRecord{
		Action:          RosterActionRemove,
		Arbitrator:      arbitrator,
		Version:         r.version,
		Timestamp:       now,
		PreviousVersion: previousVersion,
	})

	return nil
}

func (r *Roster) findActive(arbitrator solana.PublicKey) *RosterEntry {
	for _, entry := range r.entries {
		if entry.Arbitrator.Equals(arbitrator) && entry.RemovedAt == nil {
			return entry
		}
	}
	return nil
}

// ActiveArbitrators returns the currently listed arbitrators.
func (r *Roster) ActiveArbitrators() []*RosterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []*RosterEntry
	for _, entry := range r.entries {
		if entry.RemovedAt == nil {
			active = append(active, entry)
		}
	}
	return active
}

// GetArbitrator returns the active listing for a pubkey, or false when the
// arbitrator is unlisted or removed.
func (r *Roster) GetArbitrator(arbitrator solana.PublicKey) (*RosterEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.findActive(arbitrator)
	return entry, entry != nil
}

// Version returns the current roster version.
func (r *Roster) Version() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// AuditRecords returns a copy of the audit log.
func (r *Roster) AuditRecords() []RosterAuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RosterAuditRecord, len(r.auditRecords))
	copy(out, r.auditRecords)
	return out
}
