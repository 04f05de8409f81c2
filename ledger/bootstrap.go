package ledger

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// GovernanceProgramID is the spl-governance program the arbitration realm
// lives under.
var GovernanceProgramID = solana.MustPublicKeyFromBase58("GovERtbYXx9GNxqshL3x4oJEAJmpK3eVTzo5T64VkS4")

// BootstrapConfig describes the realm deployment to derive.
type BootstrapConfig struct {
	RealmName        string
	ResolverIdentity solana.PublicKey
	Admin            solana.PublicKey
	CaseManager      solana.PublicKey
	Executors        []solana.PublicKey
	Observers        []solana.PublicKey
}

// DeploymentManifest is the derived address set for a realm deployment.
type DeploymentManifest struct {
	DAOAddress          solana.PublicKey
	GovernanceAuthority solana.PublicKey
	Realm               solana.PublicKey
	ProgramID           solana.PublicKey
	DeployedAt          time.Time
	ChainID             string
}

// ResolverBinding binds a resolver identity to a governance authority.
type ResolverBinding struct {
	ResolverIdentity    solana.PublicKey
	GovernanceAuthority solana.PublicKey
	BoundAt             time.Time
}

// DeriveRealmAddress derives the realm PDA for a name. The name seed is
// "realm-" plus the name, truncated to the 32-byte seed limit.
func DeriveRealmAddress(name string) (solana.PublicKey, error) {
	seed := []byte("realm-" + name)
	if len(seed) > 32 {
		seed = seed[:32]
	}
	realm, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("realm"), seed},
		GovernanceProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive realm address: %w", err)
	}
	return realm, nil
}

// DeriveGovernanceAuthority derives the governance authority PDA for a
// realm.
func DeriveGovernanceAuthority(realm solana.PublicKey) (solana.PublicKey, error) {
	authority, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("governance"), realm.Bytes()},
		GovernanceProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive governance authority: %w", err)
	}
	return authority, nil
}

// Deploy derives the full deployment manifest for a realm config. No
// transactions are sent; the manifest is handed to the realm creation flow.
func Deploy(config BootstrapConfig) (*DeploymentManifest, error) {
	realm, err := DeriveRealmAddress(config.RealmName)
	if err != nil {
		return nil, err
	}
	authority, err := DeriveGovernanceAuthority(realm)
	if err != nil {
		return nil, err
	}

	return &DeploymentManifest{
		DAOAddress:          authority,
		GovernanceAuthority: authority,
		Realm:               realm,
		ProgramID:           GovernanceProgramID,
		DeployedAt:          time.Now(),
		ChainID:             "mainnet-beta",
	}, nil
}

// BindResolver binds a resolver identity to the deployed governance
// authority.
func BindResolver(governanceAuthority, resolverIdentity solana.PublicKey) ResolverBinding {
	return ResolverBinding{
		ResolverIdentity:    resolverIdentity,
		GovernanceAuthority: governanceAuthority,
		BoundAt:             time.Now(),
	}
}
