package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRealmAddress(t *testing.T) {
	first, err := DeriveRealmAddress("arbitration-dao")
	require.NoError(t, err)

	second, err := DeriveRealmAddress("arbitration-dao")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := DeriveRealmAddress("other-dao")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestDeriveRealmAddressLongNameTruncates(t *testing.T) {
	longName := strings.Repeat("x", 64)

	// Only the first 32 bytes of the name seed participate.
	a, err := DeriveRealmAddress(longName)
	require.NoError(t, err)

	b, err := DeriveRealmAddress(longName + "-suffix")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeploy(t *testing.T) {
	manifest, err := Deploy(BootstrapConfig{
		RealmName:        "arbitration-dao",
		ResolverIdentity: newKey(),
		Admin:            newKey(),
		CaseManager:      newKey(),
	})
	require.NoError(t, err)

	realm, err := DeriveRealmAddress("arbitration-dao")
	require.NoError(t, err)
	authority, err := DeriveGovernanceAuthority(realm)
	require.NoError(t, err)

	assert.Equal(t, realm, manifest.Realm)
	assert.Equal(t, authority, manifest.GovernanceAuthority)
	assert.Equal(t, authority, manifest.DAOAddress)
	assert.Equal(t, GovernanceProgramID, manifest.ProgramID)
	assert.Equal(t, "mainnet-beta", manifest.ChainID)
}

func TestBindResolver(t *testing.T) {
	authority := newKey()
	resolver := newKey()

	binding := BindResolver(authority, resolver)
	assert.Equal(t, authority, binding.GovernanceAuthority)
	assert.Equal(t, resolver, binding.ResolverIdentity)
	assert.False(t, binding.BoundAt.IsZero())
}
