package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Role is a ledger participant role. Each role carries a fixed permission
// set; a pubkey holds at most one role.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCaseManager Role = "case_manager"
	RoleArbitrator  Role = "arbitrator"
	RoleExecutor    Role = "executor"
	RoleObserver    Role = "observer"
)

// RolePermissions maps each role to the actions it may perform.
var RolePermissions = map[Role][]string{
	RoleAdmin:       {"role.assign", "role.revoke", "roster.add", "roster.remove", "dao.config"},
	RoleCaseManager: {"case.create", "case.assign", "tribunal.assign", "conflict.resolve", "evidence.attach"},
	RoleArbitrator:  {"case.vote", "case.disclose", "case.recuse"},
	RoleExecutor:    {"proposal.execute", "ruling.write"},
	RoleObserver:    {"case.read", "case.evidence"},
}

// HasPermission reports whether a role's permission set contains the action.
func HasPermission(role Role, action string) bool {
	for _, permitted := range RolePermissions[role] {
		if permitted == action {
			return true
		}
	}
	return false
}

// AuthorizationError is returned when a pubkey attempts an action outside
// its role's permission set. Role is empty when the pubkey holds no role at
// all, so callers can distinguish the two failure modes.
type AuthorizationError struct {
	Subject solana.PublicKey
	Role    Role
	Action  string
}

func (e *AuthorizationError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "none"
	}
	return fmt.Sprintf("unauthorized: role %s cannot perform action %s", role, e.Action)
}

// RoleAssignment records one role grant.
type RoleAssignment struct {
	Role       Role
	Pubkey     solana.PublicKey
	AssignedAt time.Time
}

// RoleModelConfig is the initial role layout for a deployment.
type RoleModelConfig struct {
	Admin       solana.PublicKey
	CaseManager solana.PublicKey
	Arbitrators []solana.PublicKey
	Executors   []solana.PublicKey
	Observers   []solana.PublicKey
}

// RoleModel holds role assignments and answers authorization checks.
type RoleModel struct {
	mu          sync.RWMutex
	roles       map[string]Role
	assignments []RoleAssignment
}

func NewRoleModel() *RoleModel {
	return &RoleModel{
		roles: make(map[string]Role),
	}
}

// Initialize assigns the configured roles. Later assignments for the same
// pubkey overwrite earlier ones, so a pubkey listed twice ends with the last
// role named.
func (m *RoleModel) Initialize(config RoleModelConfig) {
	m.AssignRole(config.Admin, RoleAdmin)
	m.AssignRole(config.CaseManager, RoleCaseManager)
	for _, arbitrator := range config.Arbitrators {
		m.AssignRole(arbitrator, RoleArbitrator)
	}
	for _, executor := range config.Executors {
		m.AssignRole(executor, RoleExecutor)
	}
	for _, observer := range config.Observers {
		m.AssignRole(observer, RoleObserver)
	}
}

func (m *RoleModel) AssignRole(pubkey solana.PublicKey, role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[pubkey.String()] = role
	m.assignments = append(m.assignments, RoleAssignment{
		Role:       role,
		Pubkey:     pubkey,
		AssignedAt: time.Now(),
	})
}

// GetRole returns the pubkey's role, or false when it holds none.
func (m *RoleModel) GetRole(pubkey solana.PublicKey) (Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[pubkey.String()]
	return role, ok
}

// CheckAuthorization returns an AuthorizationError unless the pubkey's role
// permits the action. Authorization is monotone in the permission table: it
// never depends on case state.
func (m *RoleModel) CheckAuthorization(pubkey solana.PublicKey, action string) error {
	role, ok := m.GetRole(pubkey)
	if !ok {
		return &AuthorizationError{Subject: pubkey, Action: action}
	}
	if !HasPermission(role, action) {
		return &AuthorizationError{Subject: pubkey, Role: role, Action: action}
	}
	return nil
}

// Assignments returns a copy of the grant history in assignment order.
func (m *RoleModel) Assignments() []RoleAssignment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoleAssignment, len(m.assignments))
	copy(out, m.assignments)
	return out
}
