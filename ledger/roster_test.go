package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRosterFixture(t *testing.T) (*Roster, solana.PublicKey) {
	t.Helper()
	admin := newKey()
	roles := NewRoleModel()
	roles.AssignRole(admin, RoleAdmin)
	return NewRoster(roles), admin
}

func TestRosterAddAndRemove(t *testing.T) {
	roster, admin := newRosterFixture(t)
	arbitrator := newKey()

	entry, err := roster.AddArbitrator(admin, arbitrator, "Arbitrator One")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Version)
	assert.Equal(t, 2, roster.Version())

	_, ok := roster.GetArbitrator(arbitrator)
	assert.True(t, ok)
	assert.Len(t, roster.ActiveArbitrators(), 1)

	require.NoError(t, roster.RemoveArbitrator(admin, arbitrator))
	_, ok = roster.GetArbitrator(arbitrator)
	assert.False(t, ok)
	assert.Empty(t, roster.ActiveArbitrators())
	assert.Equal(t, 3, roster.Version())
}

func TestRosterRejectsDuplicateActiveListing(t *testing.T) {
	roster, admin := newRosterFixture(t)
	arbitrator := newKey()

	_, err := roster.AddArbitrator(admin, arbitrator, "A")
	require.NoError(t, err)

	_, err = roster.AddArbitrator(admin, arbitrator, "A again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRosterAllowsRelistingAfterRemoval(t *testing.T) {
	roster, admin := newRosterFixture(t)
	arbitrator := newKey()

	_, err := roster.AddArbitrator(admin, arbitrator, "A")
	require.NoError(t, err)
	require.NoError(t, roster.RemoveArbitrator(admin, arbitrator))

	_, err = roster.AddArbitrator(admin, arbitrator, "A returns")
	require.NoError(t, err)

	_, ok := roster.GetArbitrator(arbitrator)
	assert.True(t, ok)
}

func TestRosterRemoveUnknownArbitrator(t *testing.T) {
	roster, admin := newRosterFixture(t)

	err := roster.RemoveArbitrator(admin, newKey())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRosterRequiresAdminPermissions(t *testing.T) {
	roster, _ := newRosterFixture(t)
	stranger := newKey()

	_, err := roster.AddArbitrator(stranger, newKey(), "A")
	require.Error(t, err)
	assert.IsType(t, &AuthorizationError{}, err)

	err = roster.RemoveArbitrator(stranger, newKey())
	require.Error(t, err)
	assert.IsType(t, &AuthorizationError{}, err)
}

func TestRosterAuditTrail(t *testing.T) {
	roster, admin := newRosterFixture(t)
	arbitrator := newKey()

	_, err := roster.AddArbitrator(admin, arbitrator, "A")
	require.NoError(t, err)
	require.NoError(t, roster.RemoveArbitrator(admin, arbitrator))

	records := roster.AuditRecords()
	require.Len(t, records, 2)
	assert.Equal(t, RosterActionAdd, records[0].Action)
	assert.Equal(t, RosterActionRemove, records[1].Action)
	assert.Equal(t, arbitrator, records[1].Arbitrator)
	assert.Equal(t, 1, records[1].PreviousVersion)
}
