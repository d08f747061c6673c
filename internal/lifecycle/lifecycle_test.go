package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gatepass-nexus/backend/internal/model"
)

func TestGatepassTransitions(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{ActionApprove, model.GatepassPending, true},
		{ActionApprove, model.GatepassApproved, false},
		{ActionApprove, model.GatepassRejected, false},
		{ActionApprove, model.GatepassExited, false},
		{ActionReject, model.GatepassPending, true},
		{ActionReject, model.GatepassApproved, false},
		{ActionReject, model.GatepassIssued, false},
		{ActionExit, model.GatepassApproved, true},
		{ActionExit, model.GatepassPending, false},
		{ActionExit, model.GatepassExited, false},
		{"unknown", model.GatepassPending, false},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.valid, Gatepass.ValidTransition(tt.action, tt.from), "ValidTransition(%q, %q)", tt.action, tt.from)
	}
}

func TestGatepassTerminalStatuses(t *testing.T) {
	for _, terminal := range []string{model.GatepassRejected, model.GatepassExited} {
		for _, action := range []string{ActionApprove, ActionReject, ActionExit} {
			assert.False(t, Gatepass.ValidTransition(action, terminal), "%s 不应可从 %s 发起", action, terminal)
		}
	}
}

func TestVisitorTransitions(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{ActionCheckIn, model.VisitorPending, true},
		{ActionCheckIn, model.VisitorCheckedIn, false},
		{ActionCheckIn, model.VisitorExpired, false},
		{ActionCheckOut, model.VisitorCheckedIn, true},
		{ActionCheckOut, model.VisitorCheckedOut, false},
		{ActionCheckOut, model.VisitorPending, false},
		{ActionCheckOut, model.VisitorExpired, false},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.valid, Visitor.ValidTransition(tt.action, tt.from), "ValidTransition(%q, %q)", tt.action, tt.from)
	}
}

func TestAssetTransitions(t *testing.T) {
	assert.True(t, Asset.ValidTransition(ActionAssign, model.AssetAvailable))
	assert.False(t, Asset.ValidTransition(ActionAssign, model.AssetAssigned))
	assert.False(t, Asset.ValidTransition(ActionAssign, model.AssetMaintenance))
	assert.True(t, Asset.ValidTransition(ActionReturn, model.AssetAssigned))
	assert.False(t, Asset.ValidTransition(ActionReturn, model.AssetAvailable))

	for _, s := range []string{model.AssetAvailable, model.AssetAssigned, model.AssetMaintenance, model.AssetRetired} {
		assert.True(t, Asset.ValidTransition(ActionSetStatus, s))
		assert.True(t, IsAssetStatus(s))
	}
	assert.False(t, IsAssetStatus("lost"))
}

func TestPermits(t *testing.T) {
	cases := []struct {
		machine Machine
		action  string
		role    string
		allowed bool
	}{
		{Gatepass, ActionApprove, model.RoleAdmin, true},
		{Gatepass, ActionApprove, model.RoleSecurityOfficer, true},
		{Gatepass, ActionApprove, model.RoleStaff, false},
		{Gatepass, ActionExit, model.RoleStaff, false},
		{Visitor, ActionCheckIn, model.RoleSecurityOfficer, true},
		{Visitor, ActionCheckOut, model.RoleStaff, false},
		{Asset, ActionAssign, model.RoleAdmin, true},
		{Asset, ActionAssign, model.RoleSecurityOfficer, false},
		{Asset, ActionSetStatus, model.RoleStaff, false},
		{Asset, "unknown", model.RoleAdmin, false},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.allowed, tt.machine.Permits(tt.action, tt.role), "%s.Permits(%q, %q)", tt.machine.Entity, tt.action, tt.role)
	}
}

func TestRule_Target(t *testing.T) {
	r, ok := Gatepass.Rule(ActionExit)
	assert.True(t, ok)
	assert.Equal(t, model.GatepassExited, r.To)
	assert.Equal(t, []string{model.GatepassApproved}, r.From)

	_, ok = Visitor.Rule(ActionAssign)
	assert.False(t, ok)
}
